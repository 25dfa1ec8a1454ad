package cli

import (
	"todolist/internal/logging"
	"todolist/internal/store"
	"todolist/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	kv, backend, err := openKV(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer kv.Close()

	// The TUI owns the terminal; logs go to the configured file or nowhere.
	logger, closer, err := logging.OpenFile(app.LogFile, app.LogLevel)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closer.Close()

	opts := tui.Options{Logger: logger, NoticeTTL: app.NoticeTTL}
	if backend != store.BackendMemory {
		opts.StateDir = app.Dir
	}
	if err := tui.Run(cmd.Context(), kv, opts); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}
