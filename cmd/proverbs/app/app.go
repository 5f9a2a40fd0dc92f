// Package app provides the application context and dependency management
// for the proverbs CLI. It centralizes configuration, logging and the
// lifecycle of the proverbs client shared by every command.
package app

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/proverbs"
	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/cmd/notify"
	"github.com/agentstation/proverbs/internal/tui"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/kv"
	"github.com/agentstation/proverbs/pkg/logging"
)

var _ application.Application = (*App)(nil)

// App represents the proverbs application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Command streams; nil means the process defaults.
	stdout io.Writer
	stderr io.Writer

	mu       sync.RWMutex
	notifier *notify.Notifier
	relay    *tui.Relay
	client   proverbs.Client // lazy-initialized, singleton
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	app.setNotifier(notify.New(notify.Config{
		OutputFormat: config.Format,
		Quiet:        config.Quiet,
		Writer:       app.stderr,
		UseColor:     !config.NoColor,
	}))

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Notifier returns the notifier for the current command.
func (a *App) Notifier() *notify.Notifier {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.notifier
}

// Relay returns the notifier handed to the client. It writes through the
// command's notifier unless the favorites browser is running.
func (a *App) Relay() *tui.Relay {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.relay
}

func (a *App) setNotifier(n *notify.Notifier) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notifier = n
	a.relay = tui.NewRelay(n)
}

// Client returns the proverbs client, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Client(ctx context.Context) (proverbs.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	ctx = logging.WithLogger(ctx, a.logger)
	c, err := proverbs.New(ctx, a.buildClientOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}

	a.client = c
	return c, nil
}

// Shutdown closes the client if one was created.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	c := a.client
	a.client = nil
	a.mu.Unlock()

	if c == nil {
		return nil
	}
	if err := c.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close client during shutdown")
		return err
	}
	return nil
}

// buildClientOptions constructs client options from the app configuration.
// Called with a.mu held.
func (a *App) buildClientOptions() []proverbs.Option {
	return []proverbs.Option{
		proverbs.WithAPIURL(a.config.APIURL),
		proverbs.WithSiteURL(a.config.SiteURL),
		proverbs.WithStorage(kv.Kind(a.config.Storage)),
		proverbs.WithDataDir(a.config.DataDir),
		proverbs.WithDownloadDir(a.config.DownloadDir),
		proverbs.WithHTTPTimeout(a.config.HTTPTimeout),
		proverbs.WithRetries(a.config.Retries),
		proverbs.WithProxy(a.config.ProxyURL),
		proverbs.WithShare(a.config.Share),
		proverbs.WithNotifier(a.relay),
	}
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client instance (useful for testing).
func WithClient(c proverbs.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}

// WithOutput redirects command output and alerts.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		a.stdout = stdout
		a.stderr = stderr
		return nil
	}
}
