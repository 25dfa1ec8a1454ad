package cli

import (
	"fmt"
	"strings"

	"todolist/internal/docs"

	"github.com/spf13/cobra"
)

type docsTopic struct {
	Topic    string `json:"topic"`
	Markdown string `json:"markdown"`
}

func (d docsTopic) String() string { return strings.TrimRight(d.Markdown, "\n") }

type docsTopics struct {
	Topics []string `json:"topics"`
}

func (d docsTopics) String() string { return strings.Join(d.Topics, "\n") }

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:       "docs [topic]",
		Short:     "Show built-in documentation",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: docs.Topics(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, envelope{Data: docsTopics{Topics: docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `todolist docs` to list topics)", topic))
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, envelope{Data: docsTopic{Topic: strings.ToLower(strings.TrimSpace(topic)), Markdown: body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	return cmd
}
