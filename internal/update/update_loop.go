package update

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hqpham/studyflow/internal/model"
	"github.com/hqpham/studyflow/internal/quickadd"
	"github.com/hqpham/studyflow/internal/scheduler"
	"github.com/hqpham/studyflow/internal/views"
)

type tasksChangedMsg struct{}

type dueEventMsg struct {
	event scheduler.DueEvent
}

type assistantResponseMsg struct {
	seq  int
	resp model.AIResponse
}

func waitForStoreChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return tasksChangedMsg{}
	}
}

func waitForDue(events <-chan scheduler.DueEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return dueEventMsg{event: ev}
	}
}

func (m Model) respondCmd(seq int, prompt string) tea.Cmd {
	orch := m.Assistant
	tasks := m.Store.Tasks()
	mood := m.Mood
	return func() tea.Msg {
		resp := orch.Respond(context.Background(), prompt, tasks, mood)
		return assistantResponseMsg{seq: seq, resp: resp}
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForStoreChange(m.changes)}
	if m.Scheduler != nil {
		cmds = append(cmds, waitForDue(m.Scheduler.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tasksChangedMsg:
		m.refreshFromStore()
		return m, waitForStoreChange(m.changes)

	case dueEventMsg:
		m.DueLog = append(m.DueLog, msg.event)
		if len(m.DueLog) > 20 {
			m.DueLog = m.DueLog[len(m.DueLog)-20:]
		}
		m.Status = StatusBar{Text: fmt.Sprintf("⏰ Đến hạn: %s", msg.event.Title)}
		return m, waitForDue(m.Scheduler.C())

	case assistantResponseMsg:
		if msg.seq != m.Chat.seq {
			// A newer prompt superseded this one.
			return m, nil
		}
		m.Chat.Pending = false
		m.Chat.History = append(m.Chat.History, ChatEntry{
			Role:        "assistant",
			Body:        msg.resp.Message,
			Suggestions: msg.resp.Suggestions,
		})
		m.syncChatViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.Chat.Pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.Chat.spinner, cmd = m.Chat.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	listWidth := width - 44
	if listWidth < 40 {
		listWidth = 40
	}
	paneHeight := height - 8
	if paneHeight < 10 {
		paneHeight = 10
	}
	m.List.list.SetSize(listWidth, paneHeight)
	m.Chat.viewport.Width = listWidth
	m.Chat.viewport.Height = paneHeight - 2
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.Quitting = true
		m.Close()
		return m, tea.Quit
	}

	if m.List.CaptureMode {
		return m.handleCaptureKey(msg)
	}
	if m.CurrentView == ViewChat && m.Chat.input.Focused() {
		return m.handleChatKey(msg)
	}

	switch key {
	case m.Keys.Quit:
		m.Quitting = true
		m.Close()
		return m, tea.Quit
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.List:
		m.CurrentView = ViewList
		return m, nil
	case m.Keys.Calendar:
		m.CurrentView = ViewCalendar
		return m, nil
	case m.Keys.Analytics:
		m.CurrentView = ViewAnalytics
		return m, nil
	case m.Keys.Chat:
		m.CurrentView = ViewChat
		m.Chat.input.Focus()
		m.syncChatViewport()
		return m, textinput.Blink
	}

	switch m.CurrentView {
	case ViewList:
		return m.handleListKey(msg)
	case ViewCalendar:
		return m.handleCalendarKey(key)
	case ViewChat:
		return m.handleChatKey(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		m.List.CaptureMode = true
		m.List.quickAdd.SetValue("")
		m.List.quickAdd.Focus()
		return m, textinput.Blink

	case "x":
		if task, ok := m.selectedTask(); ok {
			m.Store.ToggleComplete(context.Background(), task.ID)
		}
		return m, nil

	case "d":
		if task, ok := m.selectedTask(); ok {
			m.Store.Delete(context.Background(), task.ID)
			m.Status = StatusBar{Text: "Đã xóa: " + task.Title}
		}
		return m, nil

	case "K":
		m.moveSelected(-1)
		return m, nil

	case "J":
		m.moveSelected(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.List.list, cmd = m.List.list.Update(msg)
	return m, cmd
}

// moveSelected swaps the selected task with its neighbor and persists the
// whole ordering, so the store remains the single source of order.
func (m *Model) moveSelected(delta int) {
	idx := m.List.list.Index()
	target := idx + delta
	if idx < 0 || target < 0 || target >= len(m.Tasks) {
		return
	}
	ids := make([]string, len(m.Tasks))
	for i, t := range m.Tasks {
		ids[i] = t.ID
	}
	ids[idx], ids[target] = ids[target], ids[idx]
	m.Store.Reorder(context.Background(), ids)
	m.List.list.Select(target)
}

func (m Model) handleCaptureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.List.CaptureMode = false
		m.List.quickAdd.Blur()
		return m, nil

	case "enter":
		in, err := quickadd.Parse(m.List.quickAdd.Value())
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		m.Store.Add(context.Background(), in.Title, in.DueDate, in.Description, in.Priority, in.Subject)
		m.List.CaptureMode = false
		m.List.quickAdd.Blur()
		m.Status = StatusBar{Text: "Đã thêm: " + in.Title}
		return m, nil
	}

	var cmd tea.Cmd
	m.List.quickAdd, cmd = m.List.quickAdd.Update(msg)
	return m, cmd
}

func (m Model) handleCalendarKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "h":
		m.Calendar.Month = m.Calendar.Month.AddDate(0, -1, 0)
	case "l":
		m.Calendar.Month = m.Calendar.Month.AddDate(0, 1, 0)
	case "t":
		m.Calendar.Month = m.now()
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.Chat.Pending {
			// Abandon the in-flight request; its response will arrive
			// with a stale seq and be dropped.
			m.Chat.Pending = false
			m.Chat.seq++
			m.Status = StatusBar{Text: "Đã hủy yêu cầu"}
			return m, nil
		}
		m.Chat.input.Blur()
		return m, nil

	case "enter":
		if m.Chat.Pending {
			return m, nil
		}
		prompt := strings.TrimSpace(m.Chat.input.Value())
		if prompt == "" {
			return m, nil
		}
		m.Chat.input.SetValue("")
		m.Chat.seq++
		m.Chat.Pending = true
		m.Chat.History = append(m.Chat.History, ChatEntry{Role: "user", Body: prompt})
		m.syncChatViewport()
		return m, tea.Batch(m.respondCmd(m.Chat.seq, prompt), m.Chat.spinner.Tick)

	case "ctrl+a":
		m.promoteLatestSuggestions()
		return m, nil

	case "i":
		if !m.Chat.input.Focused() {
			m.Chat.input.Focus()
			return m, textinput.Blink
		}
	}

	if m.Chat.input.Focused() {
		var cmd tea.Cmd
		m.Chat.input, cmd = m.Chat.input.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Chat.viewport, cmd = m.Chat.viewport.Update(msg)
	return m, cmd
}

// promoteLatestSuggestions copies every suggestion from the most recent
// assistant reply into the task list.
func (m *Model) promoteLatestSuggestions() {
	for i := len(m.Chat.History) - 1; i >= 0; i-- {
		entry := m.Chat.History[i]
		if entry.Role != "assistant" || len(entry.Suggestions) == 0 {
			continue
		}
		for _, s := range entry.Suggestions {
			m.Store.Add(context.Background(), s.Title, s.SuggestedSlot, s.Description, s.Priority.TaskPriority(), "")
		}
		m.Status = StatusBar{Text: fmt.Sprintf("Đã thêm %d task từ gợi ý", len(entry.Suggestions))}
		return
	}
	m.Status = StatusBar{Text: "Chưa có gợi ý nào để thêm", IsError: true}
}

func (m *Model) syncChatViewport() {
	rendered := make([]string, 0, len(m.Chat.History))
	for _, entry := range m.Chat.History {
		data := views.ChatEntryData{Role: entry.Role, Body: entry.Body}
		for i, s := range entry.Suggestions {
			slot := ""
			if s.SuggestedSlot != nil {
				slot = s.SuggestedSlot.Format("02/01 15:04")
			}
			data.Suggestions = append(data.Suggestions, views.SuggestionData{
				Index:    i + 1,
				Title:    s.Title,
				Minutes:  s.EstimatedMinutes,
				Priority: string(s.Priority),
				Slot:     slot,
			})
		}
		rendered = append(rendered, views.RenderChatEntry(data))
	}
	m.Chat.viewport.SetContent(strings.Join(rendered, "\n"))
	m.Chat.viewport.GotoBottom()
}
