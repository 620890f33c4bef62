// Package store owns the canonical in-memory task collection, mirrors it to
// durable storage, and fans out change notifications to every subscriber.
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hqpham/studyflow/internal/model"
	"github.com/hqpham/studyflow/internal/storage"
)

// TaskStore is the single source of truth for tasks. Every mutation is
// applied in memory, persisted best-effort, and broadcast before the call
// returns; the in-memory state is authoritative for the session.
type TaskStore struct {
	backend storage.Store
	now     func() time.Time
	logf    func(format string, args ...any)

	mu      sync.Mutex
	tasks   []model.Task
	subs    map[int]func()
	nextSub int
}

type Option func(*TaskStore)

// WithClock fixes the store's notion of now. Tests use it.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) { s.now = now }
}

// WithLogger replaces the destination for storage-failure warnings.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(s *TaskStore) { s.logf = logf }
}

func New(backend storage.Store, opts ...Option) *TaskStore {
	s := &TaskStore{
		backend: backend,
		now:     time.Now,
		logf:    log.Printf,
		subs:    make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the durable snapshot. Missing or corrupt data loads as an
// empty collection; it never fails the caller.
func (s *TaskStore) Load(ctx context.Context) {
	raw, err := s.backend.GetRecord(ctx, storage.TasksRecord)
	if err != nil {
		if err != storage.ErrNotFound {
			s.logf("store: load tasks: %v", err)
		}
		raw = "[]"
	}
	tasks, err := decodeTasks(raw)
	if err != nil {
		s.logf("store: corrupt task record, starting empty: %v", err)
		tasks = nil
	}

	s.mu.Lock()
	s.tasks = tasks
	subs := s.subscribers()
	s.mu.Unlock()
	notify(subs)
}

// Add appends a new task and returns it. The title is stored as given;
// validating user input is the caller's concern.
func (s *TaskStore) Add(ctx context.Context, title string, dueDate *time.Time, description string, priority model.Priority, subject string) model.Task {
	if !priority.IsValid() {
		priority = model.PriorityMedium
	}
	now := s.now()

	s.mu.Lock()
	task := model.Task{
		ID:          newID(title, now, s.idExists),
		Title:       title,
		Description: description,
		Priority:    priority,
		Subject:     subject,
		CreatedAt:   now,
	}
	if dueDate != nil && !dueDate.IsZero() {
		due := *dueDate
		task.DueDate = &due
	}
	s.tasks = append(s.tasks, task)
	s.persistLocked(ctx)
	subs := s.subscribers()
	s.mu.Unlock()
	notify(subs)
	return task
}

// Delete removes the task with the given id. Missing ids are a no-op.
func (s *TaskStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.persistLocked(ctx)
	subs := s.subscribers()
	s.mu.Unlock()
	notify(subs)
}

// ToggleComplete flips completion, setting or clearing CompletedAt so the
// invariant (completed ⇔ completed_at set) holds. Missing ids are a no-op.
func (s *TaskStore) ToggleComplete(ctx context.Context, id string) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	task := &s.tasks[idx]
	task.Completed = !task.Completed
	if task.Completed {
		done := s.now()
		task.CompletedAt = &done
	} else {
		task.CompletedAt = nil
	}
	s.persistLocked(ctx)
	subs := s.subscribers()
	s.mu.Unlock()
	notify(subs)
}

// Update merges the patch into the matching task. Omitted fields are kept,
// including the due date. Missing ids and empty patches are no-ops.
func (s *TaskStore) Update(ctx context.Context, id string, patch model.TaskPatch) {
	if patch.IsZero() {
		return
	}
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.tasks[idx] = patch.Apply(s.tasks[idx], s.now())
	s.persistLocked(ctx)
	subs := s.subscribers()
	s.mu.Unlock()
	notify(subs)
}

// Reorder rewrites the collection to match idsInOrder. Tasks absent from
// the sequence are dropped; callers must pass the complete id set.
func (s *TaskStore) Reorder(ctx context.Context, idsInOrder []string) {
	s.mu.Lock()
	byID := make(map[string]model.Task, len(s.tasks))
	for _, t := range s.tasks {
		byID[t.ID] = t
	}
	reordered := make([]model.Task, 0, len(idsInOrder))
	for _, id := range idsInOrder {
		if t, ok := byID[id]; ok {
			reordered = append(reordered, t)
			delete(byID, id)
		}
	}
	s.tasks = reordered
	s.persistLocked(ctx)
	subs := s.subscribers()
	s.mu.Unlock()
	notify(subs)
}

// Tasks returns a snapshot copy of the collection in its current order.
func (s *TaskStore) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = cloneTask(t)
	}
	return out
}

// Get returns the task with the given id, if present.
func (s *TaskStore) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return cloneTask(s.tasks[idx]), true
	}
	return model.Task{}, false
}

// Subscribe registers fn to run after every mutation and returns the
// matching unsubscribe func. Notifications are synchronous and run outside
// the store lock, so subscribers may read snapshots freely.
func (s *TaskStore) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *TaskStore) idExists(id string) bool {
	return s.indexLocked(id) >= 0
}

func (s *TaskStore) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked mirrors the collection to durable storage. A write failure
// is logged and ignored; durability is advisory, the session state wins.
func (s *TaskStore) persistLocked(ctx context.Context) {
	raw, err := encodeTasks(s.tasks)
	if err != nil {
		s.logf("store: encode tasks: %v", err)
		return
	}
	if err := s.backend.PutRecord(ctx, storage.TasksRecord, raw); err != nil {
		s.logf("store: persist tasks: %v", err)
	}
}

func (s *TaskStore) subscribers() []func() {
	out := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}

func cloneTask(t model.Task) model.Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		t.CompletedAt = &done
	}
	return t
}
