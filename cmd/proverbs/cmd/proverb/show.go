package proverb

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/cmd/globals"
	"github.com/agentstation/proverbs/internal/cmd/notify"
)

// NewShowCommand creates the show command.
func NewShowCommand(app application.Application) *cobra.Command {
	var flags *globals.ActionFlags

	cmd := &cobra.Command{
		Use:     "show <id>",
		GroupID: "core",
		Short:   "Show a proverb by ID",
		Example: `  proverbs show 12
  proverbs show 12 --share
  proverbs show 12 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := client(ctx, app)
			if err != nil {
				return err
			}

			p, err := c.ByID(ctx, args[0])
			if err != nil {
				return notify.Reported(err)
			}

			runActions(ctx, app, c, p, flags)
			return printProverb(cmd, app, c, p)
		},
	}

	flags = globals.AddActionFlags(cmd)
	return cmd
}
