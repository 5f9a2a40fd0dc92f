package application

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/proverbs"
	"github.com/agentstation/proverbs/internal/cmd/notify"
	"github.com/agentstation/proverbs/internal/tui"
	"github.com/agentstation/proverbs/pkg/errors"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
type Mock struct {
	ClientFunc       func(ctx context.Context) (proverbs.Client, error)
	LoggerFunc       func() *zerolog.Logger
	NotifierFunc     func() *notify.Notifier
	OutputFormatFunc func() string
	VersionFunc      func() string

	// AlertWriter receives alerts from the default notifier.
	AlertWriter io.Writer

	once     sync.Once
	client   proverbs.Client
	err      error
	notifier *notify.Notifier
	relay    *tui.Relay
	mu       sync.Mutex
}

// Client returns the client from ClientFunc, created once.
func (m *Mock) Client(ctx context.Context) (proverbs.Client, error) {
	m.once.Do(func() {
		if m.ClientFunc == nil {
			m.err = errors.New("mock: no client configured")
			return
		}
		m.client, m.err = m.ClientFunc(ctx)
	})
	return m.client, m.err
}

// Close closes the client if one was created.
func (m *Mock) Close() error {
	if m.client == nil {
		return nil
	}
	return m.client.Close()
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// Notifier returns the notifier from NotifierFunc or one writing plain
// alerts to AlertWriter.
func (m *Mock) Notifier() *notify.Notifier {
	if m.NotifierFunc != nil {
		return m.NotifierFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.notifier == nil {
		w := m.AlertWriter
		if w == nil {
			w = io.Discard
		}
		m.notifier = notify.New(notify.Config{OutputFormat: "table", Writer: w})
	}
	return m.notifier
}

// Relay returns a relay falling back to Notifier.
func (m *Mock) Relay() *tui.Relay {
	n := m.Notifier()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.relay == nil {
		m.relay = tui.NewRelay(n)
	}
	return m.relay
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
