package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/hqpham/studyflow/internal/model"
)

type SuggestionData struct {
	Index    int
	Title    string
	Minutes  int
	Priority string
	Slot     string
}

type ChatEntryData struct {
	Role        string
	Body        string
	Suggestions []SuggestionData
}

func RenderChatEntry(entry ChatEntryData) string {
	var b strings.Builder
	switch entry.Role {
	case "user":
		b.WriteString(userStyle.Render("bạn> ") + entry.Body)
	default:
		b.WriteString(RenderMarkdown(entry.Body))
	}
	for _, s := range entry.Suggestions {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %d. %s", s.Index, s.Title))
		var meta []string
		if s.Minutes > 0 {
			meta = append(meta, fmt.Sprintf("%d phút", s.Minutes))
		}
		if s.Priority != "" {
			meta = append(meta, s.Priority)
		}
		if s.Slot != "" {
			meta = append(meta, s.Slot)
		}
		if len(meta) > 0 {
			b.WriteString(dimStyle.Render(" (" + strings.Join(meta, " · ") + ")"))
		}
	}
	return b.String()
}

// RenderCalendar draws a month grid; days carrying tasks show their count,
// today is highlighted.
func RenderCalendar(month time.Time, taskCounts map[int]int, today time.Time) string {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	var b strings.Builder
	b.WriteString(month.Format("January 2006"))
	b.WriteString("\n Mo  Tu  We  Th  Fr  Sa  Su\n")

	// Monday-first offset.
	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("    ", offset))

	col := offset
	for day := 1; day <= daysInMonth; day++ {
		cell := fmt.Sprintf("%3d", day)
		if today.Year() == month.Year() && today.Month() == month.Month() && today.Day() == day {
			cell = todayStyle.Render(cell)
		}
		if taskCounts[day] > 0 {
			cell += "•"
		} else {
			cell += " "
		}
		b.WriteString(cell)
		col++
		if col%7 == 0 {
			b.WriteString("\n")
		}
	}
	out := strings.TrimRight(b.String(), " \n")

	var agenda []string
	for day := 1; day <= daysInMonth; day++ {
		if n := taskCounts[day]; n > 0 {
			agenda = append(agenda, fmt.Sprintf("%02d: %d task(s)", day, n))
		}
	}
	if len(agenda) > 0 {
		out += "\n\n" + dimStyle.Render(strings.Join(agenda, "\n"))
	}
	return out
}

func RenderAnalytics(stats model.TaskStats) string {
	bar := completionBar(stats.CompletionRate, 24)
	lines := []string{
		"Thống kê học tập",
		"",
		fmt.Sprintf("Tổng số task:      %d", stats.TotalTasks),
		fmt.Sprintf("Đã hoàn thành:     %d", stats.CompletedTasks),
		fmt.Sprintf("Chưa hoàn thành:   %d", stats.PendingTasks),
		fmt.Sprintf("Task quan trọng:   %d", stats.HighPriorityTasks),
		fmt.Sprintf("Task trễ hạn:      %d", stats.OverdueTasks),
		fmt.Sprintf("Tạo trong 7 ngày:  %d", stats.RecentTasks),
		"",
		fmt.Sprintf("Tỷ lệ hoàn thành:  %s %d%%", bar, stats.CompletionRate),
	}
	return strings.Join(lines, "\n")
}

func completionBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func RenderHelp(bindings []string) string {
	return "Phím tắt\n\n" + strings.Join(bindings, "\n")
}

type DueLineData struct {
	Title string
	DueAt time.Time
}

func RenderDueLog(lines []DueLineData) string {
	if len(lines) == 0 {
		return ""
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, "⏰ Đến hạn")
	for _, l := range lines {
		out = append(out, fmt.Sprintf("  %s (%s)", l.Title, l.DueAt.Format("02/01 15:04")))
	}
	return strings.Join(out, "\n")
}
