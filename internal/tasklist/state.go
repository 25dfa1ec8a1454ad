// Package tasklist holds the task list state machine: the application state, the
// pure transitions over it, and the Controller that persists the results.
package tasklist

import (
	"iter"
	"slices"
	"strconv"
	"strings"

	"todolist/internal/model"
)

// NoticeCompleted is shown after a task's completion flag is toggled. The same
// text is used when a task is toggled back to pending.
const NoticeCompleted = "Task marked as complete!"

type Notice struct {
	Text string
	// Seq increases every time a notice is shown; a clear only applies to the
	// notice it was scheduled for.
	Seq int
}

func (n Notice) Active() bool { return n.Text != "" }

type State struct {
	Tasks  []model.Task
	Dark   bool
	Filter model.Filter
	Notice Notice
}

func NewState() State {
	return State{Tasks: []model.Task{}, Filter: model.FilterAll}
}

func (s State) clone() State {
	out := s
	out.Tasks = slices.Clone(s.Tasks)
	if out.Tasks == nil {
		out.Tasks = []model.Task{}
	}
	return out
}

// Action is one user-driven transition. See Reduce.
type Action interface{ isAction() }

type (
	// Add appends a pending task. Text that is empty after trimming is ignored.
	// ID is assigned by the caller; Controller fills it in when empty.
	Add struct {
		Text string
		ID   string
	}
	ToggleComplete struct{ Index int }
	Delete         struct{ Index int }
	StartEditing   struct{ Index int }
	// SaveTask replaces the text and leaves edit mode. Text is not validated.
	SaveTask struct {
		Index int
		Text  string
	}
	SetFilter   struct{ Filter model.Filter }
	ToggleTheme struct{}
	SetTheme    struct{ Dark bool }
	ClearNotice struct{ Seq int }
)

func (Add) isAction()            {}
func (ToggleComplete) isAction() {}
func (Delete) isAction()         {}
func (StartEditing) isAction()   {}
func (SaveTask) isAction()       {}
func (SetFilter) isAction()      {}
func (ToggleTheme) isAction()    {}
func (SetTheme) isAction()       {}
func (ClearNotice) isAction()    {}

// Reduce applies a to s and returns the next state. s is never modified. On
// error the returned state is s unchanged.
func Reduce(s State, a Action) (State, error) {
	next := s.clone()
	switch a := a.(type) {
	case Add:
		if strings.TrimSpace(a.Text) == "" {
			return s, nil
		}
		next.Tasks = append(next.Tasks, model.Task{ID: a.ID, Text: a.Text})
	case ToggleComplete:
		if err := checkIndex("toggle", a.Index, len(s.Tasks)); err != nil {
			return s, err
		}
		next.Tasks[a.Index].Completed = !next.Tasks[a.Index].Completed
		next.Notice = Notice{Text: NoticeCompleted, Seq: s.Notice.Seq + 1}
	case Delete:
		if err := checkIndex("delete", a.Index, len(s.Tasks)); err != nil {
			return s, err
		}
		next.Tasks = slices.Delete(next.Tasks, a.Index, a.Index+1)
	case StartEditing:
		if err := checkIndex("edit", a.Index, len(s.Tasks)); err != nil {
			return s, err
		}
		next.Tasks[a.Index].IsEditing = true
	case SaveTask:
		if err := checkIndex("save", a.Index, len(s.Tasks)); err != nil {
			return s, err
		}
		next.Tasks[a.Index].Text = a.Text
		next.Tasks[a.Index].IsEditing = false
	case SetFilter:
		f, err := model.ParseFilter(string(a.Filter))
		if err != nil {
			return s, err
		}
		next.Filter = f
	case ToggleTheme:
		next.Dark = !s.Dark
	case SetTheme:
		next.Dark = a.Dark
	case ClearNotice:
		if a.Seq == s.Notice.Seq {
			next.Notice.Text = ""
		}
	}
	return next, nil
}

func checkIndex(op string, i, n int) error {
	if i < 0 || i >= n {
		return &IndexError{Op: op, Index: i, Len: n}
	}
	return nil
}

// Rows yields (position, task) for every task selected by f, in collection order.
// The sequence reads s afresh on every iteration.
func (s State) Rows(f model.Filter) iter.Seq2[int, model.Task] {
	return func(yield func(int, model.Task) bool) {
		for i, t := range s.Tasks {
			if !f.Matches(t) {
				continue
			}
			if !yield(i, t) {
				return
			}
		}
	}
}

// Filtered returns the tasks selected by f.
func (s State) Filtered(f model.Filter) []model.Task {
	out := []model.Task{}
	for _, t := range s.Rows(f) {
		out = append(out, t)
	}
	return out
}

// View is Filtered for the state's own filter.
func (s State) View() []model.Task { return s.Filtered(s.Filter) }

func (s State) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.Tasks, func(t model.Task) bool { return t.ID == id })
}

// Resolve maps a user-supplied task reference to a position. A reference is a
// 1-based position ("3"), a task id, or a unique id prefix.
func (s State) Resolve(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, &NotFoundError{Ref: ref}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(s.Tasks) {
			return -1, &NotFoundError{Ref: ref}
		}
		return n - 1, nil
	}
	if i := s.IndexOf(ref); i >= 0 {
		return i, nil
	}
	match, count := -1, 0
	for i, t := range s.Tasks {
		if t.ID == "" {
			continue
		}
		if strings.HasPrefix(t.ID, ref) || strings.HasPrefix(strings.TrimPrefix(t.ID, taskIDPrefix), ref) {
			match = i
			count++
		}
	}
	switch count {
	case 0:
		return -1, &NotFoundError{Ref: ref}
	case 1:
		return match, nil
	default:
		return -1, &AmbiguousRefError{Ref: ref, Matches: count}
	}
}
