package favorites

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/cmd/notify"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// NewToggleCommand creates the favorites toggle subcommand.
func NewToggleCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Add a proverb to favorites, or remove it if already there",
		Long: `Toggle removes the proverb when it is a favorite. Otherwise the proverb is
fetched and appended to the favorites.`,
		Example: `  proverbs favorites toggle 12`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := proverb.ParseID(args[0])
			if err != nil {
				return err
			}
			c, err := client(ctx, app)
			if err != nil {
				return err
			}

			p, ok := c.Favorites().Get(ctx, id)
			if !ok {
				if p, err = c.ByID(ctx, args[0]); err != nil {
					return notify.Reported(err)
				}
			}

			if _, err := c.ToggleFavorite(ctx, p); err != nil {
				_ = app.Notifier().ProverbError(p.ID, MsgSaveFailed, err)
				return notify.Reported(err)
			}
			return nil
		},
	}
}
