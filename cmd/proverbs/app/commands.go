package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/cmd/proverbs/cmd/favorites"
	"github.com/agentstation/proverbs/cmd/proverbs/cmd/proverb"
	"github.com/agentstation/proverbs/cmd/proverbs/cmd/subscribe"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(proverb.NewRandomCommand(a))
	rootCmd.AddCommand(proverb.NewShowCommand(a))
	rootCmd.AddCommand(subscribe.NewCommand(a))

	// Favorites commands
	rootCmd.AddCommand(favorites.NewCommand(a))

	// Sharing commands
	rootCmd.AddCommand(proverb.NewCopyCommand(a))
	rootCmd.AddCommand(proverb.NewExportCommand(a))
	rootCmd.AddCommand(proverb.NewLinkCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "proverbs %s\n", a.version)
			if a.config.Verbose {
				fmt.Fprintf(out, "  commit:   %s\n", a.commit)
				fmt.Fprintf(out, "  built:    %s\n", a.date)
				fmt.Fprintf(out, "  built by: %s\n", a.builtBy)
			}
		},
	}
}
