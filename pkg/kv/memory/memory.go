// Package memory provides a process-local key-value backend. It is the
// fallback when durable storage cannot be opened.
package memory

import (
	"context"
	"sync"
)

// Backend keeps values in a map for the lifetime of the process.
type Backend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates an empty memory backend.
func New() *Backend {
	return &Backend{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (b *Backend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value under key.
func (b *Backend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op.
func (b *Backend) Close() error { return nil }

// String names the backend in logs.
func (b *Backend) String() string { return "memory" }
