package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hqpham/studyflow/internal/model"
	"github.com/hqpham/studyflow/internal/storage"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func quietLogger(format string, args ...any) {}

func newTestStore(t *testing.T, now time.Time) (*TaskStore, *storage.MemoryStore) {
	t.Helper()
	backend := storage.NewMemoryStore()
	s := New(backend, WithClock(fixedClock(now)), WithLogger(quietLogger))
	s.Load(t.Context())
	return s, backend
}

func TestAddAssignsUniqueIDsAndDefaults(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(t, now)
	ctx := t.Context()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		task := s.Add(ctx, "Same title", nil, "", model.PriorityHigh, "")
		if seen[task.ID] {
			t.Fatalf("duplicate id %q", task.ID)
		}
		seen[task.ID] = true
		if !task.CreatedAt.Equal(now) {
			t.Fatalf("created_at = %v, want %v", task.CreatedAt, now)
		}
		if task.Completed || task.CompletedAt != nil {
			t.Fatalf("new task must be pending: %+v", task)
		}
	}

	task := s.Add(ctx, "Bad priority", nil, "", model.Priority("Urgent"), "")
	if task.Priority != model.PriorityMedium {
		t.Fatalf("invalid priority must default to Medium, got %q", task.Priority)
	}
}

func TestMutationSequencePreservesInvariants(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(t, now)
	ctx := t.Context()

	due := now.Add(48 * time.Hour)
	a := s.Add(ctx, "Task A", &due, "", model.PriorityHigh, "Math")
	b := s.Add(ctx, "Task B", nil, "", model.PriorityLow, "")
	c := s.Add(ctx, "Task C", nil, "", model.PriorityMedium, "")

	s.ToggleComplete(ctx, a.ID)
	s.ToggleComplete(ctx, b.ID)
	s.ToggleComplete(ctx, b.ID)
	s.Delete(ctx, c.ID)
	title := "Task A renamed"
	s.Update(ctx, a.ID, model.TaskPatch{Title: &title})
	s.Delete(ctx, "no-such-id")
	s.ToggleComplete(ctx, "no-such-id")
	s.Update(ctx, "no-such-id", model.TaskPatch{Title: &title})

	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	ids := map[string]bool{}
	for _, task := range tasks {
		if ids[task.ID] {
			t.Fatalf("duplicate id %q", task.ID)
		}
		ids[task.ID] = true
		if task.Completed != (task.CompletedAt != nil) {
			t.Fatalf("completed/completed_at invariant broken: %+v", task)
		}
	}
	if !tasks[0].Completed || tasks[0].Title != "Task A renamed" {
		t.Fatalf("unexpected first task: %+v", tasks[0])
	}
	if tasks[1].Completed {
		t.Fatalf("double toggle must leave task pending: %+v", tasks[1])
	}
}

func TestUpdateRetainsOmittedDueDate(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(t, now)
	ctx := t.Context()

	due := now.Add(24 * time.Hour)
	task := s.Add(ctx, "With due date", &due, "", model.PriorityMedium, "")

	desc := "added a description"
	s.Update(ctx, task.ID, model.TaskPatch{Description: &desc})

	got, ok := s.Get(task.ID)
	if !ok {
		t.Fatal("task disappeared")
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("omitted due date must be retained, got %v", got.DueDate)
	}

	// Empty patch leaves the task untouched.
	s.Update(ctx, task.ID, model.TaskPatch{})
	again, _ := s.Get(task.ID)
	if again.Description != desc || again.DueDate == nil || !again.DueDate.Equal(due) {
		t.Fatalf("empty patch changed the task: %+v", again)
	}
}

func TestReorderDropsUnlistedIDs(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(t, now)
	ctx := t.Context()

	a := s.Add(ctx, "A", nil, "", model.PriorityMedium, "")
	b := s.Add(ctx, "B", nil, "", model.PriorityMedium, "")
	c := s.Add(ctx, "C", nil, "", model.PriorityMedium, "")

	s.Reorder(ctx, []string{c.ID, a.ID, "phantom"})

	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks after reorder, got %d", len(tasks))
	}
	if tasks[0].ID != c.ID || tasks[1].ID != a.ID {
		t.Fatalf("unexpected order: %q, %q", tasks[0].ID, tasks[1].ID)
	}
	if _, ok := s.Get(b.ID); ok {
		t.Fatal("task absent from reorder sequence must be dropped")
	}
}

func TestSubscribeBroadcastsEveryMutation(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(t, now)
	ctx := t.Context()

	var calls int
	unsubscribe := s.Subscribe(func() { calls++ })

	task := s.Add(ctx, "A", nil, "", model.PriorityMedium, "")
	s.ToggleComplete(ctx, task.ID)
	s.Delete(ctx, task.ID)
	if calls != 3 {
		t.Fatalf("expected 3 notifications, got %d", calls)
	}

	unsubscribe()
	s.Add(ctx, "B", nil, "", model.PriorityMedium, "")
	if calls != 3 {
		t.Fatalf("unsubscribed listener still notified: %d", calls)
	}
}

func TestSubscriberSeesFreshSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(t, now)

	var observed int
	s.Subscribe(func() { observed = len(s.Tasks()) })

	s.Add(t.Context(), "A", nil, "", model.PriorityMedium, "")
	if observed != 1 {
		t.Fatalf("subscriber observed stale snapshot: %d tasks", observed)
	}
}

func TestRoundTripThroughBackend(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	backend := storage.NewMemoryStore()
	s := New(backend, WithClock(fixedClock(now)), WithLogger(quietLogger))
	ctx := t.Context()
	s.Load(ctx)

	due := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s.Add(ctx, "Ôn thi giữa kỳ", &due, "chương 1-4", model.PriorityHigh, "Toán")
	second := s.Add(ctx, "Second", nil, "", model.PriorityLow, "")
	s.ToggleComplete(ctx, second.ID)

	reloaded := New(backend, WithClock(fixedClock(now)), WithLogger(quietLogger))
	reloaded.Load(ctx)

	before, after := s.Tasks(), reloaded.Tasks()
	if len(after) != len(before) {
		t.Fatalf("expected %d tasks after reload, got %d", len(before), len(after))
	}
	for i := range before {
		b, a := before[i], after[i]
		if a.ID != b.ID || a.Title != b.Title || a.Description != b.Description ||
			a.Priority != b.Priority || a.Subject != b.Subject || a.Completed != b.Completed {
			t.Fatalf("task %d mismatch:\nbefore: %+v\nafter:  %+v", i, b, a)
		}
		if (a.DueDate == nil) != (b.DueDate == nil) {
			t.Fatalf("task %d due date presence mismatch", i)
		}
		if a.DueDate != nil && !a.DueDate.Equal(*b.DueDate) {
			t.Fatalf("task %d due date mismatch: %v vs %v", i, a.DueDate, b.DueDate)
		}
		if a.Completed && (a.CompletedAt == nil || !a.CompletedAt.Equal(*b.CompletedAt)) {
			t.Fatalf("task %d completed_at mismatch", i)
		}
	}
}

func TestLoadCorruptRecordStartsEmpty(t *testing.T) {
	backend := storage.NewMemoryStore()
	if err := backend.PutRecord(t.Context(), storage.TasksRecord, "{not json"); err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}

	s := New(backend, WithLogger(quietLogger))
	s.Load(t.Context())
	if got := len(s.Tasks()); got != 0 {
		t.Fatalf("corrupt record must load as empty, got %d tasks", got)
	}
}

func TestLoadToleratesMissingFields(t *testing.T) {
	backend := storage.NewMemoryStore()
	raw := `[{"id":"1","title":"Old schema","dueDate":"not-a-date","completed":true}]`
	if err := backend.PutRecord(t.Context(), storage.TasksRecord, raw); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	s := New(backend, WithLogger(quietLogger))
	s.Load(t.Context())
	tasks := s.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Priority != model.PriorityMedium {
		t.Fatalf("missing priority must default to Medium, got %q", got.Priority)
	}
	if got.DueDate != nil {
		t.Fatalf("unparseable due date must read as no date, got %v", got.DueDate)
	}
	if !got.Completed || got.CompletedAt == nil {
		t.Fatalf("completed task must carry completed_at after load: %+v", got)
	}
}

type failingBackend struct{ puts int }

func (f *failingBackend) GetRecord(context.Context, string) (string, error) {
	return "", storage.ErrNotFound
}

func (f *failingBackend) PutRecord(context.Context, string, string) error {
	f.puts++
	return errors.New("disk full")
}

func (f *failingBackend) DeleteRecord(context.Context, string) error { return nil }

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	backend := &failingBackend{}
	s := New(backend, WithLogger(quietLogger))
	ctx := t.Context()
	s.Load(ctx)

	task := s.Add(ctx, "Survives disk failure", nil, "", model.PriorityMedium, "")
	if backend.puts == 0 {
		t.Fatal("expected a persist attempt")
	}
	if _, ok := s.Get(task.ID); !ok {
		t.Fatal("in-memory mutation must survive a failed persist")
	}
}
