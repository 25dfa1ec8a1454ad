package cli

import (
	"fmt"
	"strings"

	"todolist/internal/model"
)

// envelope is the shape of every command's output: {"data": ..., "notice": ...}.
type envelope struct {
	Data   any    `json:"data"`
	Notice string `json:"notice,omitempty"`
}

func (e envelope) Text() string {
	var b strings.Builder
	switch d := e.Data.(type) {
	case []taskRow:
		if len(d) == 0 {
			b.WriteString("no tasks\n")
		}
		for _, r := range d {
			b.WriteString(r.line() + "\n")
		}
	case taskRow:
		b.WriteString(d.line() + "\n")
	case fmt.Stringer:
		b.WriteString(d.String() + "\n")
	default:
		fmt.Fprintf(&b, "%v\n", d)
	}
	if e.Notice != "" {
		b.WriteString(e.Notice + "\n")
	}
	return b.String()
}

// taskRow is a task plus its 1-based position in the full collection, the
// number `tasks toggle 2` refers to.
type taskRow struct {
	Position int `json:"position"`
	model.Task
}

func newTaskRow(index int, t model.Task) taskRow {
	return taskRow{Position: index + 1, Task: t}
}

func (r taskRow) line() string {
	mark := " "
	if r.Completed {
		mark = "x"
	}
	s := fmt.Sprintf("%2d. [%s] %s  %s", r.Position, mark, r.ID, r.Text)
	if r.IsEditing {
		s += "  (editing)"
	}
	return s
}

type addedResult struct {
	Added bool `json:"added"`
}

func (r addedResult) String() string {
	if r.Added {
		return "added"
	}
	return "nothing added (blank text)"
}

type themeResult struct {
	Theme model.Theme `json:"theme"`
}

func (r themeResult) String() string { return "theme: " + string(r.Theme) }
