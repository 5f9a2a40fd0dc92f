package favorites

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/tui"
)

// NewBrowseCommand creates the interactive favorites browser.
func NewBrowseCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse favorites interactively",
		Long: `Browse opens a full-screen view with the favorites on the left and the
selected proverb on the right.

Keys:
  ↑/↓ or k/j   select
  d            remove the selected favorite
  c            copy the selected proverb
  e            save the selected proverb as an image and share it
  r            reload from storage
  esc          clear the selection
  q            quit

Changes made by other proverbs processes appear as they happen, and the
view reloads from storage when the terminal regains focus.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := client(ctx, app)
			if err != nil {
				return err
			}

			if err := c.Watch(ctx); err != nil {
				app.Logger().Warn().Err(err).Msg("Changes from other processes will not be shown")
			}
			return tui.Run(ctx, c, c.Favorites(), app.Relay())
		},
	}
}
