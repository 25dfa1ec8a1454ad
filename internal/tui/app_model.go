package tui

import (
	"time"

	"todolist/internal/model"
	"todolist/internal/tasklist"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

const flashTTL = 2 * time.Second

type appModel struct {
	ctrl   *tasklist.Controller
	logger *log.Logger
	copy   func(string) error

	keys  keyMap
	help  help.Model
	list  list.Model
	input textinput.Model

	mode      mode
	editingID string

	width  int
	height int

	flash     string
	flashKind flashKind
	flashSeq  int
}

func newAppModel(ctrl *tasklist.Controller, logger *log.Logger) appModel {
	l := list.New([]list.Item{}, taskDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)

	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 500

	m := appModel{
		ctrl:   ctrl,
		logger: logger,
		copy:   copyToClipboard,
		keys:   defaultKeyMap(),
		help:   help.New(),
		list:   l,
		input:  in,
		width:  80,
		height: 24,
	}
	applyThemePreference(ctrl.Snapshot().Dark)
	m.resize()
	m.refresh()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

// refresh rebuilds the visible rows from the controller, keeping the cursor on
// the same task when it is still visible.
func (m *appModel) refresh() {
	selectedID := m.selectedID()
	prev := m.list.Index()

	st := m.ctrl.Snapshot()
	items := taskItems(st.Rows(st.Filter))
	m.list.SetItems(items)

	for i, it := range items {
		if it.(taskItem).task.ID == selectedID && selectedID != "" {
			m.list.Select(i)
			return
		}
	}
	if prev >= len(items) {
		prev = len(items) - 1
	}
	if prev < 0 {
		prev = 0
	}
	m.list.Select(prev)
}

func (m *appModel) selectID(id string) {
	for i, it := range m.list.Items() {
		if it.(taskItem).task.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m appModel) selectedID() string {
	it, ok := m.list.SelectedItem().(taskItem)
	if !ok {
		return ""
	}
	return it.task.ID
}

// selectedIndex maps the cursor row to the task's position in the collection.
func (m appModel) selectedIndex() (int, model.Task, bool) {
	id := m.selectedID()
	if id == "" {
		return -1, model.Task{}, false
	}
	st := m.ctrl.Snapshot()
	i := st.IndexOf(id)
	if i < 0 {
		return -1, model.Task{}, false
	}
	return i, st.Tasks[i], true
}

func (m *appModel) resize() {
	// header (title + tabs + blank), input line, notice/flash line, help line
	h := m.height - 6
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width, h)
	m.input.Width = m.width - 4
	m.help.Width = m.width
}

func (m *appModel) showFlash(kind flashKind, msg string) tea.Cmd {
	m.flash = msg
	m.flashKind = kind
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashTTL, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}
