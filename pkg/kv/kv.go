// Package kv is the durable key-value layer behind favorites. A Backend
// stores raw bytes per key; a Value adapts one key to a typed, observable
// value that never surfaces storage faults to its callers.
package kv

import (
	"context"
	"os"
	"path/filepath"

	"github.com/agentstation/proverbs/pkg/constants"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/kv/file"
	"github.com/agentstation/proverbs/pkg/kv/memory"
	"github.com/agentstation/proverbs/pkg/kv/sqlite"
	"github.com/agentstation/proverbs/pkg/logging"
)

// Backend stores raw values by key.
type Backend interface {
	// Get returns the stored bytes and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the stored bytes for key.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases the backend.
	Close() error
}

// Watchable is implemented by backends whose contents live in files that
// other processes can change.
type Watchable interface {
	// WatchPaths lists the directories to observe.
	WatchPaths() []string
	// Affects reports whether an event on path may change key.
	Affects(path, key string) bool
}

// Kind names a backend implementation.
type Kind string

// Backend kinds.
const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// Config selects and locates a backend.
type Config struct {
	Kind Kind
	Dir  string
}

// DefaultDir returns the per-user data directory.
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, constants.AppDirName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "."+constants.AppDirName)
	}
	return filepath.Join(os.TempDir(), constants.AppDirName)
}

// Open returns the configured backend. When it cannot be opened the failure
// is logged and a memory backend is returned instead, so the session keeps
// working without persistence. Only an unknown kind is an error.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir()
	}

	var (
		b   Backend
		err error
	)
	switch cfg.Kind {
	case "", KindFile:
		b, err = file.New(dir)
	case KindSQLite:
		b, err = sqlite.Open(ctx, filepath.Join(dir, constants.SQLiteFileName))
	case KindMemory:
		return memory.New(), nil
	default:
		return nil, errors.NewValidationError("storage", string(cfg.Kind), "must be one of file, sqlite, memory")
	}
	if err != nil {
		logging.FromContext(ctx).Warn().
			Err(err).
			Str("storage", string(cfg.Kind)).
			Str("dir", dir).
			Msg("Storage unavailable, favorites will only last for this session")
		return memory.New(), nil
	}

	logging.FromContext(ctx).Debug().Str("storage", describe(b)).Msg("Opened storage")
	return b, nil
}

func describe(b Backend) string {
	if s, ok := b.(interface{ String() string }); ok {
		return s.String()
	}
	return "unknown"
}
