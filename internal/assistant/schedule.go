package assistant

import (
	"fmt"
	"time"

	"github.com/hqpham/studyflow/internal/model"
)

const (
	minutesPerHighTask   = 45
	minutesPerMediumTask = 30
	restBreakMinutes     = 30
	restBreakThreshold   = 3
)

// SuggestSchedule derives at most three suggestions from the snapshot, in
// fixed order: pending high-priority work, pending medium-priority work,
// then a rest break when enough tasks were finished today. Pure; now fixes
// the proposed slots and the "today" boundary.
func SuggestSchedule(tasks []model.Task, now time.Time) []model.AISuggestion {
	var highPending, mediumPending, completedToday int
	for _, t := range tasks {
		if !t.Completed {
			switch t.Priority {
			case model.PriorityHigh:
				highPending++
			case model.PriorityMedium:
				mediumPending++
			}
			continue
		}
		if t.CompletedAt != nil && sameDay(*t.CompletedAt, now) {
			completedToday++
		}
	}

	var suggestions []model.AISuggestion
	if highPending > 0 {
		slot := now.Add(2 * time.Hour)
		suggestions = append(suggestions, model.AISuggestion{
			Title:            "Ưu tiên hoàn thành tasks quan trọng",
			Description:      fmt.Sprintf("Bạn có %d task quan trọng cần hoàn thành", highPending),
			EstimatedMinutes: highPending * minutesPerHighTask,
			Priority:         model.SuggestionHigh,
			SuggestedSlot:    &slot,
		})
	}
	if mediumPending > 0 {
		slot := now.Add(24 * time.Hour)
		suggestions = append(suggestions, model.AISuggestion{
			Title:            "Lên kế hoạch cho tasks trung bình",
			Description:      fmt.Sprintf("Bạn có %d task cần quan tâm", mediumPending),
			EstimatedMinutes: mediumPending * minutesPerMediumTask,
			Priority:         model.SuggestionMedium,
			SuggestedSlot:    &slot,
		})
	}
	if completedToday >= restBreakThreshold {
		slot := now.Add(time.Hour)
		suggestions = append(suggestions, model.AISuggestion{
			Title:            "Nghỉ ngơi và thư giãn",
			Description:      "Bạn đã hoàn thành nhiều task hôm nay! Hãy dành thời gian nghỉ ngơi",
			EstimatedMinutes: restBreakMinutes,
			Priority:         model.SuggestionLow,
			SuggestedSlot:    &slot,
		})
	}
	return suggestions
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
