package favorites

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/alerts"
	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/cmd/notify"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// NewRemoveCommand creates the favorites remove subcommand.
func NewRemoveCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>...",
		Aliases: []string{"rm"},
		Short:   "Remove proverbs from favorites",
		Example: `  proverbs favorites remove 12
  proverbs favorites rm 3 7 12`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := proverb.ParseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			c, err := client(ctx, app)
			if err != nil {
				return err
			}

			var missing []error
			for _, id := range ids {
				removed, err := c.RemoveFavorite(ctx, id)
				if err != nil {
					_ = app.Notifier().ProverbError(id, MsgSaveFailed, err)
					return notify.Reported(err)
				}
				if !removed {
					nf := errors.NewNotFoundError("favorite", strconv.Itoa(id))
					_ = app.Notifier().Alert(alerts.New(alerts.LevelWarning, MsgNotFavorite).ForProverb(id))
					missing = append(missing, nf)
				}
			}
			return notify.Reported(errors.Join(missing...))
		},
	}
}
