package tui

import (
	"iter"

	"todolist/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

// taskItem is one visible row. Actions go through the task id: rows of a
// filtered view do not line up with collection positions.
type taskItem struct {
	index int
	task  model.Task
}

func (i taskItem) FilterValue() string { return i.task.Text }

func taskItems(rows iter.Seq2[int, model.Task]) []list.Item {
	items := []list.Item{}
	for i, t := range rows {
		items = append(items, taskItem{index: i, task: t})
	}
	return items
}
