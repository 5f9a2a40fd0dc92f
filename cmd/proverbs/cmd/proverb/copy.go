package proverb

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/cmd/notify"
)

// NewCopyCommand creates the copy command.
func NewCopyCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "copy <id>",
		GroupID: "share",
		Short:   "Copy a proverb to the clipboard",
		Long: `Copy places the proverb, its translation and its wisdom on the system
clipboard. Favorites are copied from local storage without a request.`,
		Example: `  proverbs copy 12`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := client(ctx, app)
			if err != nil {
				return err
			}

			p, err := lookup(ctx, c, args[0])
			if err != nil {
				return err
			}
			return notify.Reported(c.Copy(ctx, p))
		},
	}
}
