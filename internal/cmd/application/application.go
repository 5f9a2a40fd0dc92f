// Package application provides the application interface for proverbs commands.
//
// Commands accept Application rather than the concrete app type so they can
// be tested with Mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func(ctx context.Context) (proverbs.Client, error) {
//	        return proverbs.New(ctx, proverbs.WithAPIURL(srv.URL), proverbs.WithBackend(memory.New()))
//	    },
//	}
//	cmd := favorites.NewCommand(mock)
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/proverbs"
	"github.com/agentstation/proverbs/internal/cmd/notify"
	"github.com/agentstation/proverbs/internal/tui"
)

// Application provides what commands need from the app.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the proverbs client, creating it on first use. The app
	// owns it; commands must not close it.
	Client(ctx context.Context) (proverbs.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// Notifier writes alerts for the current command.
	Notifier() *notify.Notifier

	// Relay routes client notifications into the favorites browser while
	// it runs.
	Relay() *tui.Relay

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
