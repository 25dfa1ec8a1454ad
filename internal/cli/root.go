package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todolist/internal/config"
	"todolist/internal/format"
	"todolist/internal/logging"
	"todolist/internal/store"
	"todolist/internal/tasklist"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Backend    string
	Format     string
	PrettyJSON bool
	LogLevel   string

	// From the config file / env only.
	LogFile   string
	NoticeTTL time.Duration

	logger *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "todolist",
		Short:        "Local task list (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todolist

  # Scriptable commands
  todolist tasks add "buy milk"
  todolist tasks list --filter pending
  todolist tasks toggle 1

  # Direct task lookup (shortcut for: todolist tasks show <task-id>)
  todolist task-k3x9q2ab
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := app.applyConfig(cmd); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Data directory (env TODOLIST_DIR; default ~/.todolist/data)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend: sqlite|file|memory (env TODOLIST_BACKEND; default autodetect)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "json", "Output format: json|edn|text (env TODOLIST_FORMAT)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "warn", "Log level: debug|info|warn|error (env TODOLIST_LOG_LEVEL)")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newThemeCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newTUICmd(app))

	return cmd
}

// applyConfig layers config file and env values under any flag the user set.
func (app *App) applyConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("dir") {
		app.Dir = cfg.Dir
	}
	if !flags.Changed("backend") {
		app.Backend = cfg.Backend
	}
	if !flags.Changed("format") {
		app.Format = cfg.Format
	}
	if !flags.Changed("log-level") {
		app.LogLevel = cfg.LogLevel
	}
	app.LogFile = cfg.LogFile
	app.NoticeTTL = cfg.NoticeTTL.Duration

	if !format.Valid(app.Format) {
		return fmt.Errorf("unknown format: %s (want json|edn|text)", app.Format)
	}
	if _, err := store.ParseBackend(app.Backend); err != nil {
		return err
	}
	app.logger = logging.New(cmd.ErrOrStderr(), app.LogLevel)
	return nil
}

func (app *App) Logger() *log.Logger {
	if app.logger == nil {
		return logging.Discard()
	}
	return app.logger
}

// openKV opens the persistence adapter for app.Dir. The memory backend never
// touches the filesystem.
func openKV(ctx context.Context, app *App) (store.KV, store.Backend, error) {
	b, err := store.ParseBackend(app.Backend)
	if err != nil {
		return nil, "", err
	}
	if b == store.BackendMemory {
		return store.NewMemory(), b, nil
	}
	s := store.Store{Dir: app.Dir}
	if err := s.Ensure(); err != nil {
		return nil, "", err
	}
	if b == store.BackendAuto {
		b = s.DetectBackend()
	}
	kv, err := s.Open(ctx, b)
	if err != nil {
		return nil, "", err
	}
	app.Logger().Debug("opened store", "dir", app.Dir, "backend", b)
	return kv, b, nil
}

// openController returns a loaded controller and a func that releases it.
func openController(ctx context.Context, app *App) (*tasklist.Controller, func(), error) {
	kv, _, err := openKV(ctx, app)
	if err != nil {
		return nil, nil, err
	}
	ctrl := tasklist.New(kv,
		tasklist.WithLogger(app.Logger()),
		tasklist.WithNoticeTTL(app.NoticeTTL),
	)
	closeFn := func() {
		ctrl.Close()
		if err := kv.Close(); err != nil {
			app.Logger().Warn("close store", "err", err)
		}
	}
	if err := ctrl.Load(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return ctrl, closeFn, nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	var pe *tasklist.PersistError
	if errors.As(err, &pe) {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: change applied but not saved:", pe.Err.Error())
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
