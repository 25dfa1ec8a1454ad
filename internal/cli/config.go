package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"todolist/internal/config"
	"todolist/internal/format"
	"todolist/internal/store"

	"github.com/spf13/cobra"
)

type effectiveConfig struct {
	Path      string `json:"path"`
	Dir       string `json:"dir"`
	Backend   string `json:"backend"`
	Format    string `json:"format"`
	LogLevel  string `json:"logLevel"`
	LogFile   string `json:"logFile,omitempty"`
	NoticeTTL string `json:"noticeTTL"`
}

func (c effectiveConfig) String() string {
	backend := c.Backend
	if backend == "" {
		backend = "auto"
	}
	return fmt.Sprintf("config:     %s\ndir:        %s\nbackend:    %s\nformat:     %s\nlog level:  %s\nlog file:   %s\nnotice ttl: %s",
		c.Path, c.Dir, backend, c.Format, c.LogLevel, c.LogFile, c.NoticeTTL)
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings (defaults, file, env and flags)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: effectiveConfig{
				Path:      path,
				Dir:       app.Dir,
				Backend:   app.Backend,
				Format:    app.Format,
				LogLevel:  app.LogLevel,
				LogFile:   app.LogFile,
				NoticeTTL: app.NoticeTTL.String(),
			}})
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return writeErr(cmd, fmt.Errorf("config file already exists: %s (use --force to overwrite)", path))
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return writeErr(cmd, err)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return writeErr(cmd, err)
			}
			if err := os.WriteFile(path, []byte(config.Example()), 0o644); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]string{"path": path}})
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set one key in the config file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := strings.ToLower(args[0]), args[1]
			cfg, err := config.LoadFile()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.Set(key, value); err != nil {
				return writeErr(cmd, err)
			}
			if err := validateConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			if err := config.Save(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]string{"key": key, "value": value}})
		},
	})

	return cmd
}

func validateConfig(cfg *config.Config) error {
	if _, err := store.ParseBackend(cfg.Backend); err != nil {
		return err
	}
	if cfg.Format != "" && !format.Valid(cfg.Format) {
		return errInvalidArg("format", cfg.Format, "json|edn|text")
	}
	return nil
}
