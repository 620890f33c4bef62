package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidAction               = errors.New("model: invalid ai action")
	ErrInvalidSuggestionPriority   = errors.New("model: invalid suggestion priority")
	ErrNonPositiveEstimatedMinutes = errors.New("model: estimated minutes must be positive")
)

// AIAction is the classified purpose of an assistant interaction.
type AIAction string

const (
	ActionCreateTask      AIAction = "create_task"
	ActionAnalyzeTasks    AIAction = "analyze_tasks"
	ActionSummarize       AIAction = "summarize"
	ActionSuggestSchedule AIAction = "suggest_schedule"
	ActionUnknown         AIAction = "unknown"
)

func (a AIAction) IsValid() bool {
	switch a {
	case ActionCreateTask, ActionAnalyzeTasks, ActionSummarize, ActionSuggestSchedule, ActionUnknown:
		return true
	default:
		return false
	}
}

// SuggestionPriority is the lower-case priority domain used by suggestions.
// It is deliberately distinct from the Task Priority casing.
type SuggestionPriority string

const (
	SuggestionLow    SuggestionPriority = "low"
	SuggestionMedium SuggestionPriority = "medium"
	SuggestionHigh   SuggestionPriority = "high"
)

func (p SuggestionPriority) IsValid() bool {
	switch p {
	case SuggestionLow, SuggestionMedium, SuggestionHigh:
		return true
	default:
		return false
	}
}

// TaskPriority converts the suggestion priority to the Task domain,
// defaulting to Medium when unset.
func (p SuggestionPriority) TaskPriority() Priority {
	switch p {
	case SuggestionLow:
		return PriorityLow
	case SuggestionHigh:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// AISuggestion is a transient proposal for a task or time allocation.
// It is never persisted; promoting one into a Task is an explicit user action.
type AISuggestion struct {
	Title            string
	Description      string
	EstimatedMinutes int
	Priority         SuggestionPriority
	SuggestedSlot    *time.Time
}

func (s AISuggestion) Validate() error {
	if s.Title == "" {
		return errors.New("model: suggestion title is required")
	}
	if s.EstimatedMinutes < 0 {
		return fmt.Errorf("%w: %d", ErrNonPositiveEstimatedMinutes, s.EstimatedMinutes)
	}
	if s.Priority != "" && !s.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSuggestionPriority, s.Priority)
	}
	return nil
}

// TaskStats is the analyzer's immutable aggregate over a task snapshot.
type TaskStats struct {
	TotalTasks        int `json:"totalTasks"`
	CompletedTasks    int `json:"completedTasks"`
	PendingTasks      int `json:"pendingTasks"`
	HighPriorityTasks int `json:"highPriorityTasks"`
	OverdueTasks      int `json:"overdueTasks"`
	RecentTasks       int `json:"recentTasks"`
	CompletionRate    int `json:"completionRate"`
}

// AIResponse is the orchestrator's output envelope.
type AIResponse struct {
	Action      AIAction
	Message     string
	Suggestions []AISuggestion
	Analysis    *TaskStats
}
