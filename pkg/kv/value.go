package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/logging"
)

// Trigger says why subscribers are being notified.
type Trigger int

const (
	// TriggerWrite is a write made through this Value.
	TriggerWrite Trigger = iota
	// TriggerExternal is a change made by another process.
	TriggerExternal
	// TriggerVisible is a view becoming visible again.
	TriggerVisible
	// TriggerFocus is a view regaining input focus.
	TriggerFocus
)

// String returns the trigger name.
func (t Trigger) String() string {
	switch t {
	case TriggerWrite:
		return "write"
	case TriggerExternal:
		return "external"
	case TriggerVisible:
		return "visible"
	case TriggerFocus:
		return "focus"
	default:
		return "unknown"
	}
}

// Value is a typed, JSON-encoded view of a single key. It is safe for
// concurrent use. Subscribers run outside the internal lock, one broadcast at
// a time, in the order the changes were made.
type Value[T any] struct {
	backend Backend
	key     string
	def     func() T

	mu      sync.Mutex
	cur     T
	raw     []byte
	loaded  bool
	subs    map[uint64]func(T, Trigger)
	nextSub uint64

	// pending is appended under mu so queue order matches change order.
	pending    []broadcast[T]
	delivering bool

	watchMu sync.Mutex
	watch   *watcher
}

// NewValue binds key on backend. def produces the value used when the key is
// absent or unreadable.
func NewValue[T any](backend Backend, key string, def func() T) *Value[T] {
	if def == nil {
		def = func() T {
			var zero T
			return zero
		}
	}
	return &Value[T]{
		backend: backend,
		key:     key,
		def:     def,
		subs:    make(map[uint64]func(T, Trigger)),
	}
}

// Key returns the bound key.
func (v *Value[T]) Key() string { return v.key }

// Read returns the current value, loading it on first use.
func (v *Value[T]) Read(ctx context.Context) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.loaded {
		v.loadLocked(ctx)
	}
	return v.cur
}

// Write stores val. On failure the previous value stays current and the
// error is logged and returned.
func (v *Value[T]) Write(ctx context.Context, val T) error {
	_, err := v.Update(ctx, func(T) T { return val })
	return err
}

// Update applies fn to the current value and stores the result. fn must not
// modify its argument in place. Concurrent updates are serialized. On failure
// the previous value is returned along with the error.
func (v *Value[T]) Update(ctx context.Context, fn func(T) T) (T, error) {
	v.mu.Lock()
	if !v.loaded {
		v.loadLocked(ctx)
	}
	next := fn(v.cur)

	data, err := json.Marshal(next)
	if err != nil {
		cur := v.cur
		v.mu.Unlock()
		err = errors.WrapParse("json", v.key, err)
		logging.FromContext(ctx).Warn().Err(err).Str("key", v.key).Msg("Failed to encode value")
		return cur, err
	}
	if err := v.backend.Set(ctx, v.key, data); err != nil {
		cur := v.cur
		v.mu.Unlock()
		logging.FromContext(ctx).Warn().Err(err).Str("key", v.key).Msg("Failed to store value")
		return cur, err
	}
	v.cur = next
	v.raw = data
	v.enqueueLocked(next, TriggerWrite)
	v.mu.Unlock()

	v.deliver()
	return next, nil
}

// Refresh re-reads the key and notifies subscribers with the fresh value.
// External refreshes that find the stored bytes unchanged notify nobody.
func (v *Value[T]) Refresh(ctx context.Context, trigger Trigger) T {
	v.mu.Lock()
	changed := v.loadLocked(ctx)
	cur := v.cur
	if trigger == TriggerExternal && !changed {
		v.mu.Unlock()
		return cur
	}
	v.enqueueLocked(cur, trigger)
	v.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("key", v.key).Stringer("trigger", trigger).Msg("Value refreshed")
	v.deliver()
	return cur
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (v *Value[T]) Subscribe(fn func(T, Trigger)) func() {
	v.mu.Lock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

// loadLocked reads the backend into the cache and reports whether the
// stored bytes differ from those seen last.
func (v *Value[T]) loadLocked(ctx context.Context) bool {
	prev, wasLoaded := v.raw, v.loaded
	v.loaded = true

	raw, ok, err := v.backend.Get(ctx, v.key)
	switch {
	case err != nil:
		logging.FromContext(ctx).Warn().Err(err).Str("key", v.key).Msg("Failed to read stored value, using default")
		v.cur, v.raw = v.def(), nil
	case !ok:
		v.cur, v.raw = v.def(), nil
	default:
		var out T
		if err := json.Unmarshal(raw, &out); err != nil {
			logging.FromContext(ctx).Warn().
				Err(errors.WrapParse("json", v.key, err)).
				Str("key", v.key).
				Msg("Stored value is malformed, using default")
			v.cur = v.def()
		} else {
			v.cur = out
		}
		v.raw = raw
	}
	return !wasLoaded || !bytes.Equal(prev, v.raw)
}

type broadcast[T any] struct {
	subs    []func(T, Trigger)
	val     T
	trigger Trigger
}

func (v *Value[T]) enqueueLocked(val T, trigger Trigger) {
	subs := make([]func(T, Trigger), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.pending = append(v.pending, broadcast[T]{subs: subs, val: val, trigger: trigger})
}

// deliver drains the queue unless another goroutine already is, in which
// case that goroutine delivers what was just queued. A subscriber that
// writes to the value sees its own broadcast after the current one ends.
func (v *Value[T]) deliver() {
	v.mu.Lock()
	if v.delivering {
		v.mu.Unlock()
		return
	}
	v.delivering = true

	for len(v.pending) > 0 {
		b := v.pending[0]
		v.pending[0] = broadcast[T]{}
		v.pending = v.pending[1:]
		v.mu.Unlock()
		for _, fn := range b.subs {
			fn(b.val, b.trigger)
		}
		v.mu.Lock()
	}
	v.delivering = false
	v.mu.Unlock()
}
