package tui

import (
	"context"
	"errors"
	"strings"

	"todolist/internal/model"
	"todolist/internal/tasklist"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case noticeClearedMsg:
		// Notice text is read from the controller on every View.
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdding:
			return m.updateAdding(msg)
		case modeEditing:
			return m.updateEditing(msg)
		case modeHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Quit) {
				m.mode = modeNormal
			}
			return m, nil
		default:
			return m.updateNormal(msg)
		}
	}

	if m.mode == modeAdding || m.mode == modeEditing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdding
		m.input.Reset()
		m.input.Placeholder = "What needs to be done?"
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Toggle):
		i, _, ok := m.selectedIndex()
		if !ok {
			return m, nil
		}
		err := m.ctrl.ToggleComplete(ctx, i)
		m.refresh()
		cmd := m.reportErr("toggle", err)
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		i, t, ok := m.selectedIndex()
		if !ok {
			return m, nil
		}
		err := m.ctrl.StartEditing(ctx, i)
		if err != nil && !tasklist.IsPersistError(err) {
			cmd := m.reportErr("edit", err)
			return m, cmd
		}
		m.mode = modeEditing
		m.editingID = t.ID
		m.input.Placeholder = ""
		m.input.SetValue(t.Text)
		m.input.CursorEnd()
		m.refresh()
		cmd := tea.Batch(m.input.Focus(), m.reportErr("edit", err))
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		i, _, ok := m.selectedIndex()
		if !ok {
			return m, nil
		}
		err := m.ctrl.Delete(ctx, i)
		m.refresh()
		cmd := m.reportErr("delete", err)
		return m, cmd

	case key.Matches(msg, m.keys.Yank):
		_, t, ok := m.selectedIndex()
		if !ok {
			return m, nil
		}
		if err := m.copy(t.Text); err != nil {
			m.logger.Warn("copy to clipboard", "err", err)
			cmd := m.showFlash(flashError, "Copy failed: "+err.Error())
			return m, cmd
		}
		cmd := m.showFlash(flashInfo, "Copied")
		return m, cmd

	case key.Matches(msg, m.keys.FilterAll):
		return m.setFilter(model.FilterAll)
	case key.Matches(msg, m.keys.FilterDone):
		return m.setFilter(model.FilterCompleted)
	case key.Matches(msg, m.keys.FilterTodo):
		return m.setFilter(model.FilterPending)
	case key.Matches(msg, m.keys.NextFilter):
		return m.setFilter(m.ctrl.Snapshot().Filter.Next())

	case key.Matches(msg, m.keys.Theme):
		dark, err := m.ctrl.ToggleTheme(ctx)
		applyThemePreference(dark)
		cmd := m.reportErr("theme", err)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeNormal
		m.input.Blur()
		m.input.Reset()
		return m, nil

	case key.Matches(msg, m.keys.Commit):
		text := m.input.Value()
		m.mode = modeNormal
		m.input.Blur()
		m.input.Reset()
		t, added, err := m.ctrl.Add(context.Background(), text)
		m.refresh()
		if added {
			m.selectID(t.ID)
		}
		cmd := m.reportErr("add", err)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateEditing commits on enter and on esc: leaving the field saves, as a
// blurred input does.
func (m appModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Commit, m.keys.Cancel) {
		return m.commitEdit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) commitEdit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	id := m.editingID
	m.mode = modeNormal
	m.editingID = ""
	m.input.Blur()
	m.input.Reset()

	i := m.ctrl.Snapshot().IndexOf(id)
	if i < 0 {
		m.refresh()
		cmd := m.showFlash(flashError, "Task no longer exists")
		return m, cmd
	}
	err := m.ctrl.SaveTask(context.Background(), i, text)
	m.refresh()
	cmd := m.reportErr("save", err)
	return m, cmd
}

func (m appModel) setFilter(f model.Filter) (tea.Model, tea.Cmd) {
	if err := m.ctrl.SetFilter(f); err != nil {
		cmd := m.reportErr("filter", err)
		return m, cmd
	}
	m.refresh()
	return m, nil
}

// reportErr logs err and flashes a short message; nil is a no-op.
func (m *appModel) reportErr(op string, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	m.logger.Error(op, "err", err)
	var pe *tasklist.PersistError
	if errors.As(err, &pe) {
		return m.showFlash(flashError, "Not saved: "+strings.TrimSpace(pe.Err.Error()))
	}
	return m.showFlash(flashError, err.Error())
}
