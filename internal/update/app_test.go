package update

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hqpham/studyflow/internal/assistant"
	"github.com/hqpham/studyflow/internal/model"
	"github.com/hqpham/studyflow/internal/storage"
	"github.com/hqpham/studyflow/internal/store"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	ts := store.New(storage.NewMemoryStore())
	ts.Load(context.Background())
	m := NewModel(Deps{
		Store:     ts,
		Assistant: assistant.NewOrchestrator(),
		Mood:      "neutral",
	})
	m.now = func() time.Time {
		return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	}
	t.Cleanup(m.Close)
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func applyKeys(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T, want Model", next)
		}
	}
	return m
}

func TestViewSwitching(t *testing.T) {
	m := newTestModel(t)

	for _, tc := range []struct {
		key  string
		want View
	}{
		{"2", ViewCalendar},
		{"3", ViewAnalytics},
		{"4", ViewChat},
	} {
		m = applyKeys(t, m, tc.key)
		if m.CurrentView != tc.want {
			t.Errorf("key %q: view = %q, want %q", tc.key, m.CurrentView, tc.want)
		}
	}

	// Chat focuses the input, so "1" types into it instead of switching.
	m = applyKeys(t, m, "esc", "1")
	if m.CurrentView != ViewList {
		t.Errorf("after esc+1: view = %q, want %q", m.CurrentView, ViewList)
	}
}

func TestQuickAddCapture(t *testing.T) {
	m := newTestModel(t)

	m = applyKeys(t, m, "a")
	if !m.List.CaptureMode {
		t.Fatal("expected capture mode after 'a'")
	}

	m.List.quickAdd.SetValue("Học toán @math !high")
	m = applyKeys(t, m, "enter")

	if m.List.CaptureMode {
		t.Error("capture mode should end on enter")
	}
	tasks := m.Store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("store has %d tasks, want 1", len(tasks))
	}
	if tasks[0].Title != "Học toán" || tasks[0].Priority != model.PriorityHigh || tasks[0].Subject != "math" {
		t.Errorf("unexpected task: %+v", tasks[0])
	}
}

func TestQuickAddRejectsEmptyTitle(t *testing.T) {
	m := newTestModel(t)

	m = applyKeys(t, m, "a")
	m.List.quickAdd.SetValue("@math !high")
	m = applyKeys(t, m, "enter")

	if !m.List.CaptureMode {
		t.Error("capture mode should stay open on parse error")
	}
	if !m.Status.IsError {
		t.Error("expected error status")
	}
	if got := len(m.Store.Tasks()); got != 0 {
		t.Errorf("store has %d tasks, want 0", got)
	}
}

func TestStoreChangeRefreshesSnapshot(t *testing.T) {
	m := newTestModel(t)

	m.Store.Add(context.Background(), "Ôn tiếng Anh", nil, "", model.PriorityMedium, "")

	next, cmd := m.Update(tasksChangedMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Error("expected the store watcher to be re-armed")
	}
	if len(m.Tasks) != 1 || m.Stats.TotalTasks != 1 {
		t.Errorf("snapshot not refreshed: %d tasks, stats %+v", len(m.Tasks), m.Stats)
	}
}

func TestChatSendAndResponse(t *testing.T) {
	m := newTestModel(t)
	m = applyKeys(t, m, "4")

	m.Chat.input.SetValue("Phân tích task của tôi")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)

	if !m.Chat.Pending {
		t.Fatal("expected pending request after enter")
	}
	if cmd == nil {
		t.Fatal("expected a respond command")
	}
	if len(m.Chat.History) != 1 || m.Chat.History[0].Role != "user" {
		t.Fatalf("unexpected history: %+v", m.Chat.History)
	}

	resp := model.AIResponse{Action: model.ActionAnalyzeTasks, Message: "📊 ok"}
	next, _ = m.Update(assistantResponseMsg{seq: m.Chat.seq, resp: resp})
	m = next.(Model)

	if m.Chat.Pending {
		t.Error("pending should clear once the response lands")
	}
	if len(m.Chat.History) != 2 || m.Chat.History[1].Role != "assistant" {
		t.Fatalf("unexpected history: %+v", m.Chat.History)
	}
}

func TestStaleResponseIgnored(t *testing.T) {
	m := newTestModel(t)
	m = applyKeys(t, m, "4")

	m.Chat.input.SetValue("câu hỏi")
	next, _ := m.Update(keyMsg("enter"))
	m = next.(Model)
	stale := m.Chat.seq

	// esc abandons the request and bumps the sequence.
	m = applyKeys(t, m, "esc")
	if m.Chat.Pending {
		t.Fatal("esc should cancel the pending request")
	}

	next, _ = m.Update(assistantResponseMsg{seq: stale, resp: model.AIResponse{Message: "muộn"}})
	m = next.(Model)
	if len(m.Chat.History) != 1 {
		t.Errorf("stale response appended to history: %+v", m.Chat.History)
	}
}

func TestPromoteSuggestions(t *testing.T) {
	m := newTestModel(t)
	m = applyKeys(t, m, "4")

	slot := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	m.Chat.History = append(m.Chat.History, ChatEntry{
		Role: "assistant",
		Suggestions: []model.AISuggestion{
			{Title: "Ôn hóa", EstimatedMinutes: 45, Priority: model.SuggestionHigh, SuggestedSlot: &slot},
			{Title: "Nghỉ ngơi", EstimatedMinutes: 30, Priority: model.SuggestionLow},
		},
	})

	m = applyKeys(t, m, "ctrl+a")

	tasks := m.Store.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("store has %d tasks, want 2", len(tasks))
	}
	if tasks[0].Priority != model.PriorityHigh || tasks[0].DueDate == nil || !tasks[0].DueDate.Equal(slot) {
		t.Errorf("first promoted task wrong: %+v", tasks[0])
	}
	if tasks[1].Priority != model.PriorityLow || tasks[1].DueDate != nil {
		t.Errorf("second promoted task wrong: %+v", tasks[1])
	}
}

func TestToggleAndDeleteFromList(t *testing.T) {
	m := newTestModel(t)
	m.Store.Add(context.Background(), "Làm bài tập", nil, "", model.PriorityMedium, "")
	next, _ := m.Update(tasksChangedMsg{})
	m = next.(Model)

	m = applyKeys(t, m, "x")
	if got := m.Store.Tasks(); !got[0].Completed {
		t.Error("x should toggle completion")
	}

	next, _ = m.Update(tasksChangedMsg{})
	m = next.(Model)
	m = applyKeys(t, m, "d")
	if got := len(m.Store.Tasks()); got != 0 {
		t.Errorf("d should delete the task, %d left", got)
	}
}

func TestViewRendersCurrentSurface(t *testing.T) {
	m := newTestModel(t)

	if out := m.View(); !strings.Contains(out, "studyflow") {
		t.Error("header missing from view output")
	}

	m = applyKeys(t, m, "3")
	if out := m.View(); !strings.Contains(out, "Thống kê") {
		t.Error("analytics label missing from view output")
	}

	m = applyKeys(t, m, "?")
	if !m.HelpVisible {
		t.Error("? should open help")
	}
}
