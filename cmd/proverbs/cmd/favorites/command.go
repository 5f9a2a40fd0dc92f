// Package favorites implements the favorites command group.
package favorites

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs"
	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/pkg/errors"
)

// Alert messages.
const (
	// MsgSaveFailed is shown when the favorites collection cannot be stored.
	MsgSaveFailed = "Failed to save favorites."
	// MsgNotFavorite is shown for each id remove could not find.
	MsgNotFavorite = "Not in favorites."
)

// NewCommand creates the favorites command with its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav", "favs"},
		GroupID: "favorites",
		Short:   "Manage favorite proverbs",
		Long: `Favorites are stored on this machine and shared by every proverbs process
using the same storage. Changes made by one process are seen by the others.`,
		Example: `  proverbs favorites list             # List favorites
  proverbs favorites toggle 12        # Add or remove proverb 12
  proverbs favorites browse           # Interactive list and detail view`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewListCommand(app))
	cmd.AddCommand(NewToggleCommand(app))
	cmd.AddCommand(NewRemoveCommand(app))
	cmd.AddCommand(NewBrowseCommand(app))
	cmd.AddCommand(NewWatchCommand(app))

	return cmd
}

func client(ctx context.Context, app application.Application) (proverbs.Client, error) {
	c, err := app.Client(ctx)
	if err != nil {
		return nil, errors.WrapResource("create", "proverbs client", "", err)
	}
	return c, nil
}
