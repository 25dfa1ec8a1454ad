package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// taskDelegate renders a task as a single line: "[x] text".
type taskDelegate struct{}

func (d taskDelegate) Height() int                             { return 1 }
func (d taskDelegate) Spacing() int                            { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	contentW := m.Width()
	if !ok || contentW < 8 {
		return
	}

	fmt.Fprint(w, renderTaskLine(it, contentW, index == m.Index()))
}

func renderTaskLine(it taskItem, width int, selected bool) string {
	box := "[ ]"
	text := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	if it.task.Completed {
		box = "[x]"
		text = styleMuted().Strikethrough(true)
	}
	marker := "  "
	if selected {
		marker = "› "
	}

	body := it.task.Text
	if strings.TrimSpace(body) == "" {
		body = "(empty)"
	}
	suffix := ""
	if it.task.IsEditing {
		suffix = " (editing)"
	}

	// Truncate the plain text before styling so widths stay exact.
	avail := width - xansi.StringWidth(marker+box+" ") - xansi.StringWidth(suffix)
	if avail < 1 {
		avail = 1
	}
	if xansi.StringWidth(body) > avail {
		body = xansi.Truncate(body, avail, "…")
	}

	boxStyle := lipgloss.NewStyle().Foreground(colorMuted)
	if it.task.Completed {
		boxStyle = lipgloss.NewStyle().Foreground(colorDone)
	}
	line := marker + boxStyle.Render(box) + " " + text.Render(body) + styleMuted().Render(suffix)

	if pad := width - xansi.StringWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	if selected {
		return lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true).Render(line)
	}
	return line
}
