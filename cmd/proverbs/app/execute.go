package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/notify"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/logging"
)

// Execute runs the proverbs CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "proverbs",
		Short:   "Yoruba proverbs in your terminal",
		Version: a.version,
		Long: `Proverbs shows Yoruba proverbs with their English translation and
wisdom, keeps a list of your favorites, and shares them as text, links
or images.

Favorites are saved locally and stay in sync across every running
proverbs process.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	if a.stdout != nil {
		rootCmd.SetOut(a.stdout)
	}
	if a.stderr != nil {
		rootCmd.SetErr(a.stderr)
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "favorites",
		Title: "Favorites Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "share",
		Title: "Sharing Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.proverbs.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", false, "only show warnings and errors (shortcut for --log-level=error)")
	flags.BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml, wide")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.StringVar(&a.config.APIURL, "api-url", a.config.APIURL, "proverb API base URL")
	flags.StringVar(&a.config.Storage, "storage", a.config.Storage, "favorites storage: file, sqlite, memory")
	flags.StringVar(&a.config.DataDir, "data-dir", a.config.DataDir, "directory holding saved favorites")

	rootCmd.SetVersionTemplate("proverbs {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// A named config file replaces the defaults loaded in New; flags are
	// applied again on top.
	if cmd.Flags().Changed("config") {
		config, err := LoadConfig(mustGetString(cmd, "config"))
		if err != nil {
			return errors.WrapResource("load", "config", mustGetString(cmd, "config"), err)
		}
		a.config = config
	}
	a.config.UpdateFromFlags(cmd)
	if err := a.config.Validate(); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger

	n, err := notify.NewFromCommand(cmd)
	if err != nil {
		return err
	}
	a.setNotifier(n)

	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	a.logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("api_url", a.config.APIURL).
		Str("storage", a.config.Storage).
		Str("config", a.config.ConfigFile).
		Msg("Starting command")

	return nil
}

// ExitOnError prints err and exits with status 1. Errors the user was
// already shown as alerts only set the exit status.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	if !notify.IsReported(err) {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
	}
	os.Exit(1)
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
