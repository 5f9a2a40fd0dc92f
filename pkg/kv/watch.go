package kv

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/agentstation/proverbs/pkg/constants"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/logging"
)

type watcher struct {
	fs     *fsnotify.Watcher
	stopCh chan struct{}
	doneCh chan struct{}
}

// Watch observes the backend for changes made by other processes and
// refreshes with TriggerExternal when the key's stored bytes change. It
// returns immediately; watching ends when ctx is done or Close is called.
// Backends that are not Watchable make Watch a no-op.
func (v *Value[T]) Watch(ctx context.Context) error {
	w, ok := v.backend.(Watchable)
	if !ok {
		logging.FromContext(ctx).Debug().Str("key", v.key).Msg("Storage does not support change notification")
		return nil
	}

	v.watchMu.Lock()
	defer v.watchMu.Unlock()
	if v.watch != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapResource("create", "watcher", v.key, err)
	}
	for _, path := range w.WatchPaths() {
		if err := fsw.Add(path); err != nil {
			_ = fsw.Close()
			return errors.WrapIO("watch", path, err)
		}
	}

	// Establish the baseline so the first event compares against it.
	v.Read(ctx)

	v.watch = &watcher{
		fs:     fsw,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go v.runWatch(ctx, w, v.watch)
	return nil
}

// Close stops watching. The backend is left open.
func (v *Value[T]) Close() error {
	v.watchMu.Lock()
	w := v.watch
	v.watch = nil
	v.watchMu.Unlock()
	if w == nil {
		return nil
	}
	close(w.stopCh)
	<-w.doneCh
	return w.fs.Close()
}

func (v *Value[T]) runWatch(ctx context.Context, src Watchable, w *watcher) {
	defer close(w.doneCh)
	log := logging.FromContext(ctx).With().Str("key", v.key).Logger()

	ticker := time.NewTicker(constants.WatchDebounce)
	defer ticker.Stop()

	var (
		pending   bool
		lastEvent time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !src.Affects(event.Name, v.key) {
				continue
			}
			log.Trace().Str("path", event.Name).Stringer("op", event.Op).Msg("Storage event")
			pending = true
			lastEvent = time.Now()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Storage watcher error")
		case <-ticker.C:
			if pending && time.Since(lastEvent) >= constants.WatchDebounce {
				pending = false
				v.Refresh(ctx, TriggerExternal)
			}
		}
	}
}
