// Package notify routes client notifications to terminal alerts.
package notify

import (
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/alerts"
	"github.com/agentstation/proverbs/internal/cmd/globals"
	"github.com/agentstation/proverbs/internal/cmd/output"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/notifier"
)

// Compile-time interface check to ensure proper implementation.
var _ notifier.Notifier = (*Notifier)(nil)

// Notifier writes alerts. It satisfies notifier.Notifier so the proverbs
// client can report confirmations and failures through it.
type Notifier struct {
	mu     sync.Mutex
	writer *alerts.Writer
	config Config
}

// Config controls notification behavior.
type Config struct {
	OutputFormat string    // "table", "json", "yaml" or "auto"
	Quiet        bool      // suppress success and info alerts
	Writer       io.Writer // where alerts go (default: stderr)
	UseColor     bool
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		OutputFormat: "auto",
		Writer:       os.Stderr,
		UseColor:     true,
	}
}

// New creates a new Notifier with the given configuration.
func New(config Config) *Notifier {
	if config.Writer == nil {
		config.Writer = os.Stderr
	}
	w := alerts.NewWriter(config.Writer, output.DetectFormat(config.OutputFormat))
	if !config.UseColor || isCI() {
		w.WithColor(false)
	}
	return &Notifier{writer: w, config: config}
}

// NewFromCommand creates a Notifier configured from a Cobra command.
func NewFromCommand(cmd *cobra.Command) (*Notifier, error) {
	globalFlags, err := globals.Parse(cmd)
	if err != nil {
		return nil, errors.WrapParse("flags", cmd.Name(), err)
	}

	config := DefaultConfig()
	config.OutputFormat = globalFlags.Format
	config.Quiet = globalFlags.Quiet
	config.UseColor = !globalFlags.NoColor
	config.Writer = cmd.ErrOrStderr()

	return New(config), nil
}

// Notify writes a client notification as an alert.
func (n *Notifier) Notify(level notifier.Level, message string) {
	_ = n.Alert(alerts.New(alerts.FromNotifier(level), message))
}

// Alert writes an alert. Quiet mode drops everything below warning.
func (n *Notifier) Alert(alert *alerts.Alert) error {
	if n.config.Quiet && alert.Level.Quiet() {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.writer.Write(alert)
}

// Success sends a success alert.
func (n *Notifier) Success(message string) error {
	return n.Alert(alerts.New(alerts.LevelSuccess, message))
}

// Info sends an info alert.
func (n *Notifier) Info(message string) error {
	return n.Alert(alerts.New(alerts.LevelInfo, message))
}

// Warning sends a warning alert.
func (n *Notifier) Warning(message string) error {
	return n.Alert(alerts.New(alerts.LevelWarning, message))
}

// Error sends an error alert.
func (n *Notifier) Error(message string, err error) error {
	return n.Alert(alerts.New(alerts.LevelError, message).WithError(err))
}

// ProverbError reports a failed action on the proverb with id.
func (n *Notifier) ProverbError(id int, message string, err error) error {
	return n.Alert(alerts.New(alerts.LevelError, message).ForProverb(id).WithError(err))
}

// FieldErrors writes one warning per invalid form field.
func (n *Notifier) FieldErrors(fe errors.FieldErrors) error {
	for _, field := range fe.Fields() {
		if err := n.Alert(alerts.New(alerts.LevelWarning, fe[field]).WithField(field)); err != nil {
			return err
		}
	}
	return nil
}

// isCI detects if running in a CI/CD environment.
func isCI() bool {
	for _, envVar := range []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"BUILDKITE",
	} {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

// reportedError marks a failure the user has already seen as an alert.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported marks err as already shown so the top level only sets the exit
// status.
func Reported(err error) error {
	if err == nil || IsReported(err) {
		return err
	}
	return &reportedError{err: err}
}

// IsReported reports whether err was marked with Reported.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
