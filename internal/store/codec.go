package store

import (
	"encoding/json"
	"fmt"

	"github.com/hqpham/studyflow/internal/model"
)

// persistedTask is the wire shape of a task in the durable record: one JSON
// array of these objects, timestamps as ISO-8601 strings. There is no schema
// version; missing fields take their documented defaults on decode.
type persistedTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Priority    string `json:"priority"`
	Subject     string `json:"subject,omitempty"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
	CompletedAt string `json:"completedAt,omitempty"`
}

func encodeTasks(tasks []model.Task) (string, error) {
	out := make([]persistedTask, 0, len(tasks))
	for _, t := range tasks {
		p := persistedTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    string(t.Priority),
			Subject:     t.Subject,
			Completed:   t.Completed,
			CreatedAt:   model.FormatTime(t.CreatedAt),
		}
		if t.DueDate != nil {
			p.DueDate = model.FormatTime(*t.DueDate)
		}
		if t.CompletedAt != nil {
			p.CompletedAt = model.FormatTime(*t.CompletedAt)
		}
		out = append(out, p)
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(raw), nil
}

// decodeTasks is defensive: an unparseable record is an error (the caller
// falls back to an empty collection), but within a well-formed array every
// field degrades individually — bad dates read as "no date", unknown
// priorities as Medium.
func decodeTasks(raw string) ([]model.Task, error) {
	var persisted []persistedTask
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	tasks := make([]model.Task, 0, len(persisted))
	for _, p := range persisted {
		t := model.Task{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Priority:    model.Priority(p.Priority),
			Subject:     p.Subject,
			Completed:   p.Completed,
		}
		if !t.Priority.IsValid() {
			t.Priority = model.PriorityMedium
		}
		if ts, ok := model.ParseTime(p.CreatedAt); ok {
			t.CreatedAt = ts
		}
		if ts, ok := model.ParseTime(p.DueDate); ok {
			t.DueDate = &ts
		}
		if ts, ok := model.ParseTime(p.CompletedAt); ok && t.Completed {
			t.CompletedAt = &ts
		}
		// Keep the invariant even if the record predates it.
		if t.Completed && t.CompletedAt == nil {
			created := t.CreatedAt
			t.CompletedAt = &created
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
