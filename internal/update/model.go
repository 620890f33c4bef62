// Package update holds the bubbletea application model: four surfaces
// (list, calendar, analytics, chat) that all render from the task store's
// snapshot and re-render on every store broadcast.
package update

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/hqpham/studyflow/internal/assistant"
	"github.com/hqpham/studyflow/internal/model"
	"github.com/hqpham/studyflow/internal/scheduler"
	"github.com/hqpham/studyflow/internal/store"
)

type View string

const (
	ViewList      View = "List"
	ViewCalendar  View = "Calendar"
	ViewAnalytics View = "Analytics"
	ViewChat      View = "Chat"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	List      string
	Calendar  string
	Analytics string
	Chat      string
	Help      string
	Quit      string
}

// ChatEntry is one line of the assistant transcript.
type ChatEntry struct {
	Role        string // "user" or "assistant"
	Body        string
	Suggestions []model.AISuggestion
}

type ChatState struct {
	History []ChatEntry
	Pending bool
	// seq identifies the in-flight request; responses carrying an older
	// seq were superseded and are dropped on arrival.
	seq      int
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
}

type ListState struct {
	CaptureMode bool
	list        list.Model
	quickAdd    textinput.Model
}

type CalendarState struct {
	Month time.Time
}

type Model struct {
	CurrentView View
	Status      StatusBar
	Keys        GlobalKeyMap
	HelpVisible bool
	Quitting    bool

	Store     *store.TaskStore
	Assistant *assistant.Orchestrator
	Scheduler *scheduler.Engine
	Mood      string

	Tasks    []model.Task
	Stats    model.TaskStats
	List     ListState
	Calendar CalendarState
	Chat     ChatState
	DueLog   []scheduler.DueEvent

	changes     chan struct{}
	unsubscribe func()
	now         func() time.Time
}

// Deps carries everything the composition root injects into the TUI.
type Deps struct {
	Store     *store.TaskStore
	Assistant *assistant.Orchestrator
	Scheduler *scheduler.Engine
	Mood      string
}

func NewModel(deps Deps) Model {
	m := Model{
		CurrentView: ViewList,
		Store:       deps.Store,
		Assistant:   deps.Assistant,
		Scheduler:   deps.Scheduler,
		Mood:        deps.Mood,
		Keys: GlobalKeyMap{
			List:      "1",
			Calendar:  "2",
			Analytics: "3",
			Chat:      "4",
			Help:      "?",
			Quit:      "q",
		},
		changes: make(chan struct{}, 1),
		now:     time.Now,
	}
	m.Calendar.Month = m.now()
	m.initBubbleComponents()

	if m.Store != nil {
		changes := m.changes
		m.unsubscribe = m.Store.Subscribe(func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	}
	m.refreshFromStore()
	return m
}

func (m *Model) initBubbleComponents() {
	m.List.list = list.New([]list.Item{}, list.NewDefaultDelegate(), 60, 14)
	m.List.list.Title = "Tasks"
	m.List.list.SetShowHelp(false)
	m.List.list.SetFilteringEnabled(false)

	m.List.quickAdd = textinput.New()
	m.List.quickAdd.Placeholder = "title @subject !priority ^due +description"
	m.List.quickAdd.CharLimit = 200

	m.Chat.input = textinput.New()
	m.Chat.input.Placeholder = "Hỏi trợ lý... (vd: Tạo task học toán)"
	m.Chat.input.CharLimit = 400

	m.Chat.viewport = viewport.New(60, 14)
	m.Chat.spinner = spinner.New()
	m.Chat.spinner.Spinner = spinner.Dot
}

type taskItem struct {
	task model.Task
	now  time.Time
}

func (i taskItem) Title() string {
	mark := "[ ]"
	if i.task.Completed {
		mark = "[x]"
	}
	return mark + " " + i.task.Title
}

func (i taskItem) Description() string {
	parts := make([]string, 0, 3)
	parts = append(parts, string(i.task.Priority))
	if i.task.Subject != "" {
		parts = append(parts, i.task.Subject)
	}
	if i.task.DueDate != nil {
		due := i.task.DueDate.Format("02/01 15:04")
		if i.task.Overdue(i.now) {
			due += " (trễ hạn)"
		}
		parts = append(parts, due)
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " · " + p
	}
	return out
}

func (i taskItem) FilterValue() string { return i.task.Title }

// refreshFromStore rebuilds everything derived from the snapshot: list
// items, analytics, and the due-event queue for pending dated tasks.
func (m *Model) refreshFromStore() {
	if m.Store == nil {
		return
	}
	now := m.now()
	m.Tasks = m.Store.Tasks()
	m.Stats = assistant.Analyze(m.Tasks, now)

	items := make([]list.Item, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		items = append(items, taskItem{task: t, now: now})
	}
	m.List.list.SetItems(items)

	if m.Scheduler != nil {
		events := make([]scheduler.DueEvent, 0, len(m.Tasks))
		for _, t := range m.Tasks {
			if t.Completed || t.DueDate == nil || !t.DueDate.After(now) {
				continue
			}
			events = append(events, scheduler.DueEvent{
				TaskID: t.ID,
				Title:  t.Title,
				DueAt:  *t.DueDate,
			})
		}
		m.Scheduler.Reset(events)
	}
}

func (m *Model) selectedTask() (model.Task, bool) {
	item, ok := m.List.list.SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.task, true
}

// Close releases the store subscription; the program calls it on teardown.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}
