package tui

import (
	"fmt"
	"strings"

	"todolist/internal/docs"
	"todolist/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	st := m.ctrl.Snapshot()

	if m.mode == modeHelp {
		return lipgloss.JoinVertical(lipgloss.Left,
			renderMarkdown(docs.MustGet("keys"), m.width),
			styleMuted().Render("? or esc to close"),
		)
	}

	var b strings.Builder
	b.WriteString(m.viewHeader(st.Filter, len(st.Tasks), countDone(st.Tasks)))
	b.WriteString("\n\n")

	if len(m.list.Items()) == 0 {
		b.WriteString(styleMuted().Render(emptyMessage(st.Filter, len(st.Tasks))))
		b.WriteString(strings.Repeat("\n", max(1, m.list.Height())))
	} else {
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}

	switch m.mode {
	case modeAdding:
		b.WriteString(styleInput().Render(m.input.View()))
	case modeEditing:
		b.WriteString(styleInput().Render("edit " + m.input.View()))
	}
	b.WriteString("\n")

	switch {
	case m.flash != "" && m.flashKind == flashError:
		b.WriteString(styleError().Render(m.flash))
	case st.Notice.Active():
		b.WriteString(styleNotice().Render(st.Notice.Text))
	case m.flash != "":
		b.WriteString(styleMuted().Render(m.flash))
	}
	b.WriteString("\n")

	if m.mode == modeAdding || m.mode == modeEditing {
		b.WriteString(m.help.ShortHelpView(inputHelp{commit: m.keys.Commit, cancel: m.keys.Cancel}.ShortHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func (m appModel) viewHeader(active model.Filter, total, done int) string {
	tabs := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		tabs = append(tabs, styleFilterTab(f == active).Render(f.Label()))
	}
	title := styleTitle().Render("Tasks")
	counts := styleMuted().Render(fmt.Sprintf("%d/%d done", done, total))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", strings.Join(tabs, " "), "  ", counts)
}

func countDone(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

func emptyMessage(f model.Filter, total int) string {
	switch {
	case total == 0:
		return "No tasks yet. Press a to add one."
	case f == model.FilterCompleted:
		return "Nothing completed yet."
	case f == model.FilterPending:
		return "Nothing left to do."
	default:
		return "No tasks."
	}
}
