package proverbs

import (
	"context"

	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Lifecycle = (*client)(nil)

// Lifecycle controls background work and resources.
type Lifecycle interface {
	// Watch delivers favorites changes made by other processes until ctx
	// is done or Close is called.
	Watch(ctx context.Context) error

	// Close stops watching and closes storage.
	Close() error
}

// Watch starts the storage watcher.
func (c *client) Watch(ctx context.Context) error {
	if err := c.favorites.Watch(ctx); err != nil {
		return errors.WrapResource("watch", "favorites", "", err)
	}
	logging.FromContext(ctx).Debug().Msg("Watching favorites for external changes")
	return nil
}

// Close stops watching and closes storage. It is safe to call more than once.
func (c *client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		err = errors.Join(c.favorites.Close(), c.backend.Close())
	})
	return err
}
