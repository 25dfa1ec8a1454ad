package cli

import (
	"fmt"
	"strings"

	"todolist/internal/model"
	"todolist/internal/store"
	"todolist/internal/tasklist"

	"github.com/spf13/cobra"
)

type doctorIssue struct {
	Level   string `json:"level"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

type doctorReport struct {
	Dir     string        `json:"dir"`
	Backend store.Backend `json:"backend"`
	Tasks   int           `json:"tasks"`
	Theme   model.Theme   `json:"theme"`
	Issues  []doctorIssue `json:"issues"`
}

func (r doctorReport) HasErrors() bool {
	for _, is := range r.Issues {
		if is.Level == "error" {
			return true
		}
	}
	return false
}

func (r doctorReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dir:     %s\nbackend: %s\ntasks:   %d\ntheme:   %s", r.Dir, r.Backend, r.Tasks, r.Theme)
	for _, is := range r.Issues {
		fmt.Fprintf(&b, "\n%s: %s: %s", is.Level, is.Key, is.Message)
	}
	return b.String()
}

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the persisted task list parses and validates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, backend, err := openKV(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			// Read the raw keys; loading through the controller would rewrite them.
			report := doctorReport{Dir: app.Dir, Backend: backend, Theme: model.ThemeLight, Issues: []doctorIssue{}}

			if v, ok, err := kv.Get(cmd.Context(), tasklist.KeyTheme); err != nil {
				return writeErr(cmd, err)
			} else if ok {
				report.Theme = model.ThemeValue(tasklist.DecodeTheme(v))
				if v != string(model.ThemeDark) && v != string(model.ThemeLight) {
					report.Issues = append(report.Issues, doctorIssue{Level: "warn", Key: tasklist.KeyTheme, Message: fmt.Sprintf("unexpected value %q (read as light)", v)})
				}
			}

			raw, ok, err := kv.Get(cmd.Context(), tasklist.KeyTasks)
			if err != nil {
				return writeErr(cmd, err)
			}
			if ok {
				tasks, err := tasklist.DecodeTasks(raw)
				if err != nil {
					report.Issues = append(report.Issues, doctorIssue{Level: "error", Key: tasklist.KeyTasks, Message: err.Error() + " (loads as an empty list)"})
				} else {
					report.Tasks = len(tasks)
					missing := 0
					for _, t := range tasks {
						if t.ID == "" {
							missing++
						}
					}
					if missing > 0 {
						report.Issues = append(report.Issues, doctorIssue{Level: "info", Key: tasklist.KeyTasks, Message: fmt.Sprintf("%d task(s) without id; ids are assigned on next load", missing)})
					}
				}
			}

			if err := writeOut(cmd, app, envelope{Data: report}); err != nil {
				return err
			}
			if fail && report.HasErrors() {
				return errDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
