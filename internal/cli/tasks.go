package cli

import (
	"strings"

	"todolist/internal/model"
	"todolist/internal/tasklist"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}

	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksToggleCmd(app))
	cmd.AddCommand(newTasksRmCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksSaveCmd(app))

	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Append a task (blank text is ignored)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, done, err := openController(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			t, added, err := ctrl.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			if !added {
				return writeOut(cmd, app, envelope{Data: addedResult{Added: false}})
			}
			st := ctrl.Snapshot()
			return writeOut(cmd, app, envelope{Data: newTaskRow(st.IndexOf(t.ID), t)})
		},
	}
}

func newTasksListCmd(app *App) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctrl, done, err := openController(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			if err := ctrl.SetFilter(f); err != nil {
				return writeErr(cmd, err)
			}
			st := ctrl.Snapshot()
			rows := []taskRow{}
			for i, t := range st.Rows(st.Filter) {
				rows = append(rows, newTaskRow(i, t))
			}
			return writeOut(cmd, app, envelope{Data: rows})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "Filter: all|completed|pending")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ref>",
		Short: "Show a task by position, id or id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, done, err := openController(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			i, err := ctrl.Resolve(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: newTaskRow(i, ctrl.Snapshot().Tasks[i])})
		},
		ValidArgsFunction: completeTaskRef(app),
	}
}

func newTasksToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <ref>",
		Aliases: []string{"done"},
		Short:   "Flip a task's completed flag",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateTask(cmd, app, args[0], func(ctrl *tasklist.Controller, i int) error {
				return ctrl.ToggleComplete(cmd.Context(), i)
			})
		},
		ValidArgsFunction: completeTaskRef(app),
	}
}

func newTasksRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, done, err := openController(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			i, err := ctrl.Resolve(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			removed := newTaskRow(i, ctrl.Snapshot().Tasks[i])
			if err := ctrl.Delete(cmd.Context(), i); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: removed})
		},
		ValidArgsFunction: completeTaskRef(app),
	}
}

func newTasksEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <ref>",
		Short: "Put a task into edit mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateTask(cmd, app, args[0], func(ctrl *tasklist.Controller, i int) error {
				return ctrl.StartEditing(cmd.Context(), i)
			})
		},
		ValidArgsFunction: completeTaskRef(app),
	}
}

func newTasksSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save <ref> [text...]",
		Short: "Replace a task's text and leave edit mode",
		Long:  "Replace a task's text and leave edit mode. The text is stored as given, including empty text.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return mutateTask(cmd, app, args[0], func(ctrl *tasklist.Controller, i int) error {
				return ctrl.SaveTask(cmd.Context(), i, text)
			})
		},
		ValidArgsFunction: completeTaskRef(app),
	}
}

// mutateTask resolves ref, applies fn and prints the task as it is afterwards,
// with the notice when one is showing.
func mutateTask(cmd *cobra.Command, app *App, ref string, fn func(*tasklist.Controller, int) error) error {
	ctrl, done, err := openController(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer done()

	i, err := ctrl.Resolve(ref)
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := fn(ctrl, i); err != nil {
		return writeErr(cmd, err)
	}
	st := ctrl.Snapshot()
	return writeOut(cmd, app, envelope{Data: newTaskRow(i, st.Tasks[i]), Notice: st.Notice.Text})
}
