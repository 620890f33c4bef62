package update

import (
	"fmt"
	"strings"

	"github.com/hqpham/studyflow/internal/views"
)

var viewOrder = []View{ViewList, ViewCalendar, ViewAnalytics, ViewChat}

var viewLabels = map[View]string{
	ViewList:      "Tasks",
	ViewCalendar:  "Lịch",
	ViewAnalytics: "Thống kê",
	ViewChat:      "Trợ lý",
}

func (m Model) View() string {
	if m.Quitting {
		return "Tạm biệt! 👋\n"
	}

	data := views.AppData{
		Header:     m.headerLine(),
		LeftPane:   m.leftPane(),
		RightPane:  m.rightPane(),
		StatusLine: m.statusLine(),
		Footer:     m.footerLine(),
	}
	return views.RenderApp(data)
}

func (m Model) headerLine() string {
	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := fmt.Sprintf("[%d] %s", i+1, viewLabels[v])
		if v == m.CurrentView {
			label = "«" + label + "»"
		}
		tabs = append(tabs, label)
	}
	return "studyflow  " + strings.Join(tabs, "  ")
}

func (m Model) leftPane() string {
	if m.HelpVisible {
		return views.RenderHelp([]string{
			"1-4      chuyển màn hình",
			"a        thêm task nhanh (esc hủy)",
			"x        hoàn thành / mở lại",
			"d        xóa task",
			"J / K    di chuyển task xuống / lên",
			"h / l    tháng trước / tháng sau",
			"t        về tháng hiện tại",
			"enter    gửi câu hỏi cho trợ lý",
			"ctrl+a   thêm các task được gợi ý",
			"esc      hủy yêu cầu đang chờ",
			"?        ẩn / hiện trợ giúp",
			"q        thoát",
		})
	}

	switch m.CurrentView {
	case ViewCalendar:
		return views.RenderCalendar(m.Calendar.Month, m.dueCountsByDay(), m.now())
	case ViewAnalytics:
		return views.RenderAnalytics(m.Stats)
	case ViewChat:
		return m.chatPane()
	default:
		return m.listPane()
	}
}

func (m Model) listPane() string {
	if m.List.CaptureMode {
		return m.List.list.View() + "\n\n➕ " + m.List.quickAdd.View()
	}
	return m.List.list.View()
}

func (m Model) chatPane() string {
	var b strings.Builder
	b.WriteString(m.Chat.viewport.View())
	b.WriteString("\n")
	if m.Chat.Pending {
		b.WriteString(m.Chat.spinner.View())
		b.WriteString(" Đang suy nghĩ...")
	} else {
		b.WriteString("💬 ")
		b.WriteString(m.Chat.input.View())
	}
	return b.String()
}

func (m Model) rightPane() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hôm nay: %s\n", m.now().Format("Mon 02/01/2006"))
	fmt.Fprintf(&b, "Tổng: %d  Xong: %d  Chờ: %d\n", m.Stats.TotalTasks, m.Stats.CompletedTasks, m.Stats.PendingTasks)
	fmt.Fprintf(&b, "Ưu tiên cao: %d  Trễ hạn: %d\n", m.Stats.HighPriorityTasks, m.Stats.OverdueTasks)
	b.WriteString("\n")

	lines := make([]views.DueLineData, 0, len(m.DueLog))
	for _, ev := range m.DueLog {
		lines = append(lines, views.DueLineData{Title: ev.Title, DueAt: ev.DueAt})
	}
	b.WriteString(views.RenderDueLog(lines))
	return b.String()
}

// dueCountsByDay tallies dated tasks inside the displayed month.
func (m Model) dueCountsByDay() map[int]int {
	counts := make(map[int]int)
	for _, t := range m.Tasks {
		if t.DueDate == nil {
			continue
		}
		if t.DueDate.Year() == m.Calendar.Month.Year() && t.DueDate.Month() == m.Calendar.Month.Month() {
			counts[t.DueDate.Day()]++
		}
	}
	return counts
}

func (m Model) statusLine() string {
	if m.Status.Text == "" {
		return ""
	}
	if m.Status.IsError {
		return "⚠ " + m.Status.Text
	}
	return m.Status.Text
}

func (m Model) footerLine() string {
	switch {
	case m.List.CaptureMode:
		return "enter: thêm  esc: hủy"
	case m.CurrentView == ViewChat:
		return "enter: gửi  ctrl+a: thêm gợi ý  esc: hủy/thoát ô nhập  ?: trợ giúp"
	case m.CurrentView == ViewCalendar:
		return "h/l: đổi tháng  t: hôm nay  ?: trợ giúp  q: thoát"
	default:
		return "a: thêm  x: xong  d: xóa  J/K: sắp xếp  ?: trợ giúp  q: thoát"
	}
}
