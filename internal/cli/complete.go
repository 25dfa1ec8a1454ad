package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// completeTaskRef completes the first positional argument with task ids,
// described by their text.
func completeTaskRef(app *App) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		if err := app.applyConfig(cmd); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		ctrl, done, err := openController(cmd.Context(), app)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer done()

		var out []string
		for i, t := range ctrl.Snapshot().Tasks {
			desc := strings.ReplaceAll(t.Text, "\t", " ")
			switch {
			case t.ID != "" && strings.HasPrefix(t.ID, toComplete):
				out = append(out, t.ID+"\t"+desc)
			case strings.HasPrefix(strconv.Itoa(i+1), toComplete) && toComplete != "":
				out = append(out, strconv.Itoa(i+1)+"\t"+desc)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
