// Package assistant turns free-text prompts into structured task proposals,
// remote-first with a deterministic local fallback.
package assistant

import (
	"strings"

	"github.com/hqpham/studyflow/internal/model"
)

// Keyword groups are bilingual (Vietnamese/English) and checked in fixed
// priority order: analyze > schedule > create. A prompt matching several
// groups resolves to the first.
var (
	analyzeKeywords  = []string{"phân tích", "analyze", "thống kê", "statistic", "bao nhiêu", "how many", "tổng hợp", "summary", "report"}
	scheduleKeywords = []string{"lịch trình", "schedule", "sắp xếp", "arrange", "thời gian", "time"}
	createKeywords   = []string{"tạo", "create", "thêm", "add", "mới", "new", "task", "công việc"}
)

// ClassifyIntent maps a prompt to one intent by case-insensitive keyword
// containment, or ActionUnknown when no group matches.
func ClassifyIntent(prompt string) model.AIAction {
	lower := strings.ToLower(prompt)

	if containsAny(lower, analyzeKeywords) {
		return model.ActionAnalyzeTasks
	}
	if containsAny(lower, scheduleKeywords) {
		return model.ActionSuggestSchedule
	}
	if containsAny(lower, createKeywords) {
		return model.ActionCreateTask
	}
	return model.ActionUnknown
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
