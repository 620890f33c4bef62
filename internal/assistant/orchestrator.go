package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hqpham/studyflow/internal/model"
)

const (
	unknownHelpMessage = "🤔 Tôi không chắc bạn muốn gì. Bạn có thể:\n• 'Tạo task học toán' - để thêm task mới\n• 'Phân tích tasks' - để xem thống kê\n• 'Gợi ý lịch trình' - để sắp xếp thời gian"

	technicalDifficultyMessage = "⚠️ Xin lỗi, tôi đang gặp sự cố kỹ thuật. Vui lòng thử lại sau."

	scheduleMessage      = "📅 Dựa trên tasks hiện tại, tôi đề xuất lịch trình sau:"
	scheduleEmptyMessage = "🎉 Bạn không có task nào cần sắp xếp! Mọi thứ đã được tổ chức tốt."

	localSuggestionMinutes = 30
	maxLocalTitleRunes     = 80
)

// Orchestrator resolves a prompt into a final assistant response. It tries
// the remote bridge first and degrades to the local classifier, analyzer,
// and suggester on any failure. It never mutates the task store.
type Orchestrator struct {
	client Client
	now    func() time.Time
	logf   func(format string, args ...any)
}

type OrchestratorOption func(*Orchestrator)

func WithRemoteClient(client Client) OrchestratorOption {
	return func(o *Orchestrator) { o.client = client }
}

func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

func WithLogger(logf func(format string, args ...any)) OrchestratorOption {
	return func(o *Orchestrator) { o.logf = logf }
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		now:  time.Now,
		logf: log.Printf,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Respond answers a prompt against a task snapshot. It never returns an
// error: remote failures fall back to local logic, and an unexpected panic
// in the fallback degrades to a generic technical-difficulty message.
func (o *Orchestrator) Respond(ctx context.Context, prompt string, tasks []model.Task, mood string) (resp model.AIResponse) {
	defer func() {
		if r := recover(); r != nil {
			o.logf("assistant: respond panicked: %v", r)
			resp = model.AIResponse{Action: model.ActionUnknown, Message: technicalDifficultyMessage}
		}
	}()

	// Classified up front; only the fallback path consumes it, the remote
	// attempt is made regardless of intent.
	intent := ClassifyIntent(prompt)

	if o.client != nil {
		pending := 0
		for _, t := range tasks {
			if !t.Completed {
				pending++
			}
		}
		remote, err := o.client.Respond(ctx, Request{
			Prompt:          prompt,
			Mood:            mood,
			TaskCount:       len(tasks),
			HasPendingTasks: pending > 0,
		})
		if err == nil {
			return remote
		}
		o.logf("assistant: remote bridge failed, falling back: %v", err)
	}

	return o.fallback(ctx, intent, prompt, tasks, mood)
}

func (o *Orchestrator) fallback(ctx context.Context, intent model.AIAction, prompt string, tasks []model.Task, mood string) model.AIResponse {
	now := o.now()
	switch intent {
	case model.ActionAnalyzeTasks:
		stats := Analyze(tasks, now)
		return model.AIResponse{
			Action:   model.ActionAnalyzeTasks,
			Message:  formatAnalysis(stats),
			Analysis: &stats,
		}

	case model.ActionSuggestSchedule:
		suggestions := SuggestSchedule(tasks, now)
		message := scheduleEmptyMessage
		if len(suggestions) > 0 {
			message = scheduleMessage
		}
		return model.AIResponse{
			Action:      model.ActionSuggestSchedule,
			Message:     message,
			Suggestions: suggestions,
		}

	case model.ActionCreateTask:
		suggestions := o.generateSuggestions(ctx, prompt, mood)
		return model.AIResponse{
			Action:      model.ActionCreateTask,
			Message:     fmt.Sprintf("✅ Đã tạo %d task đề xuất cho bạn!", len(suggestions)),
			Suggestions: suggestions,
		}

	default:
		return model.AIResponse{
			Action:      model.ActionUnknown,
			Message:     unknownHelpMessage,
			Suggestions: []model.AISuggestion{},
		}
	}
}

// generateSuggestions makes exactly one nested remote attempt; when that
// also fails it synthesizes a single suggestion from the prompt itself so
// the create path always terminates locally instead of re-entering the
// respond pipeline.
func (o *Orchestrator) generateSuggestions(ctx context.Context, prompt, mood string) []model.AISuggestion {
	if o.client != nil {
		suggestions, err := o.client.GenerateSuggestions(ctx, prompt, mood)
		if err == nil {
			return suggestions
		}
		o.logf("assistant: suggestion bridge failed, synthesizing locally: %v", err)
	}
	return []model.AISuggestion{localSuggestion(prompt)}
}

func localSuggestion(prompt string) model.AISuggestion {
	title := strings.TrimSpace(prompt)
	if title == "" {
		title = "Task mới"
	}
	if runes := []rune(title); len(runes) > maxLocalTitleRunes {
		title = string(runes[:maxLocalTitleRunes])
	}
	return model.AISuggestion{
		Title:            title,
		Description:      "Được tạo từ yêu cầu của bạn",
		EstimatedMinutes: localSuggestionMinutes,
		Priority:         model.SuggestionMedium,
	}
}

func formatAnalysis(stats model.TaskStats) string {
	return fmt.Sprintf(
		"📊 Phân tích tasks của bạn:\n\n• Tổng số task: %d\n• Đã hoàn thành: %d\n• Chưa hoàn thành: %d\n• Task quan trọng: %d\n• Task trễ hạn: %d\n• Tỷ lệ hoàn thành: %d%%",
		stats.TotalTasks, stats.CompletedTasks, stats.PendingTasks,
		stats.HighPriorityTasks, stats.OverdueTasks, stats.CompletionRate,
	)
}
