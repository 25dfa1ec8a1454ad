package cli

import (
	"strings"

	"todolist/internal/model"

	"github.com/spf13/cobra"
)

func newThemeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the persisted light/dark theme",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, done, err := openController(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			return writeOut(cmd, app, envelope{Data: themeResult{Theme: model.ThemeValue(ctrl.Snapshot().Dark)}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, done, err := openController(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			dark, err := ctrl.ToggleTheme(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: themeResult{Theme: model.ThemeValue(dark)}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <dark|light>",
		Short:     "Set the theme explicitly",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.ThemeDark), string(model.ThemeLight)},
		RunE: func(cmd *cobra.Command, args []string) error {
			var dark bool
			switch model.Theme(strings.ToLower(strings.TrimSpace(args[0]))) {
			case model.ThemeDark:
				dark = true
			case model.ThemeLight:
			default:
				return writeErr(cmd, errInvalidArg("theme", args[0], "dark|light"))
			}

			ctrl, done, err := openController(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			if err := ctrl.SetTheme(cmd.Context(), dark); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: themeResult{Theme: model.ThemeValue(dark)}})
		},
	})

	return cmd
}
