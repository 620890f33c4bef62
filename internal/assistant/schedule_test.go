package assistant

import (
	"testing"
	"time"

	"github.com/hqpham/studyflow/internal/model"
)

func TestSuggestScheduleHighPriorityOnly(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "1", Title: "A", Priority: model.PriorityHigh, CreatedAt: now},
		{ID: "2", Title: "B", Priority: model.PriorityHigh, CreatedAt: now},
	}

	got := SuggestSchedule(tasks, now)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 suggestion, got %d", len(got))
	}
	s := got[0]
	if s.EstimatedMinutes != 90 {
		t.Fatalf("estimated minutes = %d, want 90", s.EstimatedMinutes)
	}
	if s.Priority != model.SuggestionHigh {
		t.Fatalf("priority = %q, want high", s.Priority)
	}
	if s.SuggestedSlot == nil || !s.SuggestedSlot.Equal(now.Add(2*time.Hour)) {
		t.Fatalf("suggested slot = %v, want now+2h", s.SuggestedSlot)
	}
}

func TestSuggestScheduleRestAfterProductiveDay(t *testing.T) {
	now := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	doneToday := now.Add(-3 * time.Hour)
	doneYesterday := now.Add(-26 * time.Hour)

	tasks := []model.Task{
		{ID: "1", Title: "A", Priority: model.PriorityHigh, CreatedAt: now, Completed: true, CompletedAt: &doneToday},
		{ID: "2", Title: "B", Priority: model.PriorityLow, CreatedAt: now, Completed: true, CompletedAt: &doneToday},
		{ID: "3", Title: "C", Priority: model.PriorityMedium, CreatedAt: now, Completed: true, CompletedAt: &doneToday},
		{ID: "4", Title: "D", Priority: model.PriorityMedium, CreatedAt: now, Completed: true, CompletedAt: &doneYesterday},
	}

	got := SuggestSchedule(tasks, now)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 suggestion, got %d", len(got))
	}
	s := got[0]
	if s.EstimatedMinutes != 30 || s.Priority != model.SuggestionLow {
		t.Fatalf("unexpected rest suggestion: %+v", s)
	}
	if s.SuggestedSlot == nil || !s.SuggestedSlot.Equal(now.Add(time.Hour)) {
		t.Fatalf("suggested slot = %v, want now+1h", s.SuggestedSlot)
	}
}

func TestSuggestScheduleEmissionOrder(t *testing.T) {
	now := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	doneToday := now.Add(-time.Hour)

	tasks := []model.Task{
		{ID: "1", Title: "High", Priority: model.PriorityHigh, CreatedAt: now},
		{ID: "2", Title: "Med A", Priority: model.PriorityMedium, CreatedAt: now},
		{ID: "3", Title: "Med B", Priority: model.PriorityMedium, CreatedAt: now},
		{ID: "4", Title: "D1", Priority: model.PriorityLow, CreatedAt: now, Completed: true, CompletedAt: &doneToday},
		{ID: "5", Title: "D2", Priority: model.PriorityLow, CreatedAt: now, Completed: true, CompletedAt: &doneToday},
		{ID: "6", Title: "D3", Priority: model.PriorityLow, CreatedAt: now, Completed: true, CompletedAt: &doneToday},
	}

	got := SuggestSchedule(tasks, now)
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(got))
	}
	if got[0].Priority != model.SuggestionHigh || got[1].Priority != model.SuggestionMedium || got[2].Priority != model.SuggestionLow {
		t.Fatalf("emission order broken: %q, %q, %q", got[0].Priority, got[1].Priority, got[2].Priority)
	}
	if got[0].EstimatedMinutes != 45 || got[1].EstimatedMinutes != 60 || got[2].EstimatedMinutes != 30 {
		t.Fatalf("unexpected minute estimates: %d, %d, %d",
			got[0].EstimatedMinutes, got[1].EstimatedMinutes, got[2].EstimatedMinutes)
	}
}

func TestSuggestScheduleNothingToSuggest(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	doneYesterday := now.Add(-26 * time.Hour)
	tasks := []model.Task{
		{ID: "1", Title: "Low pending", Priority: model.PriorityLow, CreatedAt: now},
		{ID: "2", Title: "Done long ago", Priority: model.PriorityHigh, CreatedAt: now, Completed: true, CompletedAt: &doneYesterday},
	}
	if got := SuggestSchedule(tasks, now); len(got) != 0 {
		t.Fatalf("expected no suggestions, got %d", len(got))
	}
}
