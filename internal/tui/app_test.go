package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"todolist/internal/logging"
	"todolist/internal/model"
	"todolist/internal/store"
	"todolist/internal/tasklist"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func newTestModel(t *testing.T, texts ...string) (appModel, *tasklist.Controller, *store.Memory) {
	t.Helper()

	kv := store.NewMemory()
	ctrl := tasklist.New(kv, tasklist.WithNoticeTTL(time.Hour))
	t.Cleanup(ctrl.Close)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, s := range texts {
		if _, _, err := ctrl.Add(context.Background(), s); err != nil {
			t.Fatalf("Add(%q): %v", s, err)
		}
	}

	prevDark := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(prevDark) })

	m := newAppModel(ctrl, logging.Discard())
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, ctrl, kv
}

func update(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	next, _ := m.Update(msg)
	am, ok := next.(appModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func texts(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Text)
	}
	return out
}

func TestAdd_EnterCommitsEscCancels(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m = update(t, m, runes("a"))
	if m.mode != modeAdding {
		t.Fatalf("mode = %v, want adding", m.mode)
	}
	m = update(t, m, runes("buy milk"))
	m = update(t, m, keyEnter)
	if m.mode != modeNormal {
		t.Fatalf("mode = %v, want normal", m.mode)
	}
	got := ctrl.Snapshot().Tasks
	if len(got) != 1 || got[0].Text != "buy milk" || got[0].Completed || got[0].IsEditing {
		t.Fatalf("tasks = %+v", got)
	}

	m = update(t, m, runes("a"))
	m = update(t, m, runes("never mind"))
	m = update(t, m, keyEsc)
	if n := len(ctrl.Snapshot().Tasks); n != 1 {
		t.Fatalf("esc added a task: %d tasks", n)
	}
	if m.mode != modeNormal {
		t.Fatalf("mode = %v, want normal", m.mode)
	}
}

func TestAdd_BlankIsIgnored(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m = update(t, m, runes("a"))
	m = update(t, m, runes("   "))
	m = update(t, m, keyEnter)
	if n := len(ctrl.Snapshot().Tasks); n != 0 {
		t.Fatalf("blank add created %d tasks", n)
	}
	if m.flash != "" {
		t.Fatalf("unexpected flash %q", m.flash)
	}
}

func TestToggle_OnFilteredViewHitsTheVisibleTask(t *testing.T) {
	m, ctrl, _ := newTestModel(t, "one", "two", "three")
	if err := ctrl.ToggleComplete(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	m.refresh()

	m = update(t, m, runes("3")) // pending: two, three
	if got := ctrl.Snapshot().Filter; got != model.FilterPending {
		t.Fatalf("filter = %q", got)
	}
	m = update(t, m, keyDown)
	m = update(t, m, runes("x"))

	tasks := ctrl.Snapshot().Tasks
	if !tasks[0].Completed || tasks[1].Completed || !tasks[2].Completed {
		t.Fatalf("wrong task toggled: %+v", tasks)
	}
	if n := len(m.list.Items()); n != 1 {
		t.Fatalf("visible rows = %d, want 1", n)
	}
	if !strings.Contains(m.View(), tasklist.NoticeCompleted) {
		t.Fatalf("notice not rendered:\n%s", m.View())
	}
}

func TestEdit_EscSaves(t *testing.T) {
	m, ctrl, _ := newTestModel(t, "buy milk")

	m = update(t, m, runes("e"))
	if m.mode != modeEditing {
		t.Fatalf("mode = %v, want editing", m.mode)
	}
	if !ctrl.Snapshot().Tasks[0].IsEditing {
		t.Fatalf("task not in edit mode")
	}
	m = update(t, m, runes(" today"))
	m = update(t, m, keyEsc)

	got := ctrl.Snapshot().Tasks[0]
	if got.Text != "buy milk today" || got.IsEditing {
		t.Fatalf("task = %+v", got)
	}
	if m.mode != modeNormal {
		t.Fatalf("mode = %v, want normal", m.mode)
	}
}

func TestDelete_OnFilteredView(t *testing.T) {
	m, ctrl, _ := newTestModel(t, "one", "two")
	if err := ctrl.ToggleComplete(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	m.refresh()

	m = update(t, m, runes("2")) // completed: two
	m = update(t, m, runes("d"))

	if got := texts(ctrl.Snapshot().Tasks); len(got) != 1 || got[0] != "one" {
		t.Fatalf("tasks = %v", got)
	}
	if n := len(m.list.Items()); n != 0 {
		t.Fatalf("visible rows = %d, want 0", n)
	}
}

func TestTab_CyclesFilter(t *testing.T) {
	m, ctrl, _ := newTestModel(t, "one")

	want := []model.Filter{model.FilterCompleted, model.FilterPending, model.FilterAll}
	for _, f := range want {
		m = update(t, m, keyTab)
		if got := ctrl.Snapshot().Filter; got != f {
			t.Fatalf("filter = %q, want %q", got, f)
		}
	}
}

func TestTheme_TogglePersistsAndApplies(t *testing.T) {
	m, _, kv := newTestModel(t)
	if lipgloss.HasDarkBackground() {
		t.Fatalf("expected light theme for a fresh store")
	}

	m = update(t, m, runes("t"))
	v, ok, err := kv.Get(context.Background(), tasklist.KeyTheme)
	if err != nil || !ok || v != "dark" {
		t.Fatalf("stored theme = %q ok=%v err=%v", v, ok, err)
	}
	if !lipgloss.HasDarkBackground() {
		t.Fatalf("dark theme not applied")
	}

	_ = update(t, m, runes("t"))
	if v, _, _ := kv.Get(context.Background(), tasklist.KeyTheme); v != "light" {
		t.Fatalf("stored theme = %q, want light", v)
	}
}

func TestYank_CopiesSelectedText(t *testing.T) {
	m, _, _ := newTestModel(t, "one", "two")
	var copied string
	m.copy = func(s string) error { copied = s; return nil }

	m = update(t, m, keyDown)
	m = update(t, m, runes("y"))
	if copied != "two" {
		t.Fatalf("copied %q", copied)
	}

	m.copy = func(string) error { return errors.New("no clipboard") }
	m = update(t, m, runes("y"))
	if m.flashKind != flashError || !strings.Contains(m.flash, "no clipboard") {
		t.Fatalf("flash = %q kind=%v", m.flash, m.flashKind)
	}
}

func TestFlashDone_IgnoresStaleSeq(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.showFlash(flashInfo, "first")
	m.showFlash(flashInfo, "second")
	m = update(t, m, flashDoneMsg{seq: 1})
	if m.flash != "second" {
		t.Fatalf("stale flashDoneMsg cleared the flash")
	}
	m = update(t, m, flashDoneMsg{seq: 2})
	if m.flash != "" {
		t.Fatalf("flash = %q, want cleared", m.flash)
	}
}

func TestHelp_RendersMarkdownAndCloses(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = update(t, m, runes("?"))
	if m.mode != modeHelp {
		t.Fatalf("mode = %v, want help", m.mode)
	}
	plain := xansi.Strip(m.View())
	if !strings.Contains(plain, "Keys") || !strings.Contains(plain, "delete") {
		t.Fatalf("help view:\n%s", plain)
	}
	m = update(t, m, keyEsc)
	if m.mode != modeNormal {
		t.Fatalf("mode = %v, want normal", m.mode)
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestRenderTaskLine_TruncatesToWidth(t *testing.T) {
	it := taskItem{task: model.Task{ID: "task-a", Text: strings.Repeat("long words ", 10)}}
	line := renderTaskLine(it, 30, false)
	if w := xansi.StringWidth(line); w != 30 {
		t.Fatalf("width = %d, want 30: %q", w, xansi.Strip(line))
	}
	if !strings.Contains(xansi.Strip(line), "…") {
		t.Fatalf("expected ellipsis: %q", xansi.Strip(line))
	}

	done := taskItem{task: model.Task{ID: "task-b", Text: "ship it", Completed: true}}
	if got := xansi.Strip(renderTaskLine(done, 30, false)); !strings.Contains(got, "[x] ship it") {
		t.Fatalf("completed row = %q", got)
	}
}

func TestSelectID_RestoresCursorByID(t *testing.T) {
	m, ctrl, _ := newTestModel(t, "one", "two", "three")
	id := ctrl.Snapshot().Tasks[2].ID

	m.selectID(id)
	if got := m.selectedID(); got != id {
		t.Fatalf("selected %q, want %q", got, id)
	}
	m.selectID("task-missing")
	if got := m.selectedID(); got != id {
		t.Fatalf("unknown id moved the cursor to %q", got)
	}
}
