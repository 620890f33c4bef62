package assistant

import (
	"math"
	"time"

	"github.com/hqpham/studyflow/internal/model"
)

const recentWindow = 7 * 24 * time.Hour

// Analyze computes aggregate statistics over a task snapshot. It is pure;
// now is passed in so overdue and recency cuts are reproducible.
func Analyze(tasks []model.Task, now time.Time) model.TaskStats {
	stats := model.TaskStats{TotalTasks: len(tasks)}
	recentCut := now.Add(-recentWindow)

	for _, t := range tasks {
		if t.Completed {
			stats.CompletedTasks++
		}
		if t.Priority == model.PriorityHigh {
			stats.HighPriorityTasks++
		}
		if t.Overdue(now) {
			stats.OverdueTasks++
		}
		if t.CreatedAt.After(recentCut) {
			stats.RecentTasks++
		}
	}
	stats.PendingTasks = stats.TotalTasks - stats.CompletedTasks
	if stats.TotalTasks > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100))
	}
	return stats
}
