package proverb

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/cmd/globals"
	"github.com/agentstation/proverbs/internal/cmd/notify"
)

// NewRandomCommand creates the random command.
func NewRandomCommand(app application.Application) *cobra.Command {
	var flags *globals.ActionFlags

	cmd := &cobra.Command{
		Use:     "random",
		GroupID: "core",
		Short:   "Show a random Yoruba proverb",
		Long: `Random fetches a proverb chosen by the server and shows it with its
English translation and the wisdom it carries.

A failed fetch is retried twice before giving up.`,
		Example: `  proverbs random                  # Show a random proverb
  proverbs random --favorite       # ...and add it to favorites
  proverbs random --copy --export  # ...copy it and save it as an image`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := client(ctx, app)
			if err != nil {
				return err
			}

			p, err := c.Random(ctx)
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
