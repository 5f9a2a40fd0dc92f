package kv_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/proverbs/pkg/kv"
	"github.com/agentstation/proverbs/pkg/kv/file"
	"github.com/agentstation/proverbs/pkg/kv/memory"
	"github.com/agentstation/proverbs/pkg/logging"
)

type failingBackend struct {
	getErr error
	setErr error
	*memory.Backend
}

func (f *failingBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.Backend.Get(ctx, key)
}

func (f *failingBackend) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Backend.Set(ctx, key, value)
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

type event struct {
	value   []int
	trigger kv.Trigger
}

func (r *recorder) record(v []int, t kv.Trigger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{value: v, trigger: t})
}

func (r *recorder) snapshot() []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event(nil), r.events...)
}

func emptyInts() []int { return []int{} }

func TestValueReadDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		v := kv.NewValue(memory.New(), "numbers", emptyInts)
		assert.Equal(t, []int{}, v.Read(ctx))
	})

	t.Run("malformed value", func(t *testing.T) {
		logger := logging.NewTestLogger(t)
		ctx := logging.WithLogger(ctx, logger.Logger)

		b := memory.New()
		require.NoError(t, b.Set(ctx, "numbers", []byte("{not json")))
		v := kv.NewValue(b, "numbers", emptyInts)

		assert.Equal(t, []int{}, v.Read(ctx))
		assert.True(t, logger.Contains("malformed"))
	})

	t.Run("backend failure", func(t *testing.T) {
		logger := logging.NewTestLogger(t)
		ctx := logging.WithLogger(ctx, logger.Logger)

		b := &failingBackend{getErr: errors.New("storage disabled"), Backend: memory.New()}
		v := kv.NewValue[[]int](b, "numbers", emptyInts)

		assert.Equal(t, []int{}, v.Read(ctx))
		assert.True(t, logger.Contains("storage disabled"))
	})

	t.Run("nil default", func(t *testing.T) {
		v := kv.NewValue[[]int](memory.New(), "numbers", nil)
		assert.Nil(t, v.Read(ctx))
	})
}

func TestValueWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and notifies", func(t *testing.T) {
		b := memory.New()
		v := kv.NewValue(b, "numbers", emptyInts)
		rec := &recorder{}
		v.Subscribe(rec.record)

		require.NoError(t, v.Write(ctx, []int{1, 2}))

		raw, ok, err := b.Get(ctx, "numbers")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, "[1,2]", string(raw))
		assert.Equal(t, []event{{value: []int{1, 2}, trigger: kv.TriggerWrite}}, rec.snapshot())
	})

	t.Run("failure keeps previous state", func(t *testing.T) {
		logger := logging.NewTestLogger(t)
		ctx := logging.WithLogger(ctx, logger.Logger)

		b := &failingBackend{Backend: memory.New()}
		v := kv.NewValue[[]int](b, "numbers", emptyInts)
		require.NoError(t, v.Write(ctx, []int{7}))

		rec := &recorder{}
		v.Subscribe(rec.record)
		b.setErr = errors.New("quota exceeded")

		err := v.Write(ctx, []int{7, 8})
		require.Error(t, err)
		assert.Equal(t, []int{7}, v.Read(ctx))
		assert.Empty(t, rec.snapshot())
		assert.True(t, logger.Contains("quota exceeded"))
	})

	t.Run("update sees current value", func(t *testing.T) {
		v := kv.NewValue(memory.New(), "numbers", emptyInts)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, _ = v.Update(ctx, func(cur []int) []int {
					return append(append([]int(nil), cur...), n)
				})
			}(i)
		}
		wg.Wait()
		assert.Len(t, v.Read(ctx), 20)
	})
}

func TestValueRefresh(t *testing.T) {
	ctx := context.Background()
	b := memory.New()
	v := kv.NewValue(b, "numbers", emptyInts)
	v.Read(ctx)

	rec := &recorder{}
	unsubscribe := v.Subscribe(rec.record)

	// Unchanged storage is not reported as an external change.
	v.Refresh(ctx, kv.TriggerExternal)
	assert.Empty(t, rec.snapshot())

	// Focus and visibility always re-broadcast.
	v.Refresh(ctx, kv.TriggerFocus)
	require.Len(t, rec.snapshot(), 1)
	assert.Equal(t, kv.TriggerFocus, rec.snapshot()[0].trigger)

	require.NoError(t, b.Set(ctx, "numbers", []byte("[3]")))
	got := v.Refresh(ctx, kv.TriggerExternal)
	assert.Equal(t, []int{3}, got)
	require.Len(t, rec.snapshot(), 2)
	assert.Equal(t, event{value: []int{3}, trigger: kv.TriggerExternal}, rec.snapshot()[1])

	unsubscribe()
	unsubscribe()
	v.Refresh(ctx, kv.TriggerVisible)
	assert.Len(t, rec.snapshot(), 2)
}

func TestValueBroadcastOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("concurrent writers", func(t *testing.T) {
		v := kv.NewValue(memory.New(), "numbers", emptyInts)
		rec := &recorder{}
		v.Subscribe(rec.record)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if i%5 == 0 {
					v.Refresh(ctx, kv.TriggerFocus)
					return
				}
				_, err := v.Update(ctx, func(cur []int) []int {
					return append(append([]int{}, cur...), len(cur))
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		// Every broadcast reports a list at least as long as the one before it.
		events := rec.snapshot()
		require.Len(t, events, 50)
		for i := 1; i < len(events); i++ {
			assert.GreaterOrEqual(t, len(events[i].value), len(events[i-1].value), "event %d arrived out of order", i)
		}
		assert.Len(t, events[len(events)-1].value, 40)
	})

	t.Run("subscriber writes", func(t *testing.T) {
		v := kv.NewValue(memory.New(), "numbers", emptyInts)
		var seen [][]int
		v.Subscribe(func(cur []int, _ kv.Trigger) {
			seen = append(seen, cur)
			if len(cur) == 1 {
				_, err := v.Update(ctx, func(cur []int) []int { return append(append([]int{}, cur...), 2) })
				assert.NoError(t, err)
			}
		})
		v.Subscribe(func(cur []int, _ kv.Trigger) {
			seen = append(seen, cur)
		})

		require.NoError(t, v.Write(ctx, []int{1}))
		assert.Equal(t, [][]int{{1}, {1}, {1, 2}, {1, 2}}, seen)
	})
}

func TestTriggerString(t *testing.T) {
	assert.Equal(t, "write", kv.TriggerWrite.String())
	assert.Equal(t, "external", kv.TriggerExternal.String())
	assert.Equal(t, "visible", kv.TriggerVisible.String())
	assert.Equal(t, "focus", kv.TriggerFocus.String())
	assert.Equal(t, "unknown", kv.Trigger(42).String())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		b, err := kv.Open(ctx, kv.Config{Kind: kv.KindFile, Dir: t.TempDir()})
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &file.Backend{}, b)
	})

	t.Run("default kind is file", func(t *testing.T) {
		b, err := kv.Open(ctx, kv.Config{Dir: t.TempDir()})
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &file.Backend{}, b)
	})

	t.Run("sqlite", func(t *testing.T) {
		dir := t.TempDir()
		b, err := kv.Open(ctx, kv.Config{Kind: kv.KindSQLite, Dir: dir})
		require.NoError(t, err)
		defer b.Close()
		require.NoError(t, b.Set(ctx, "k", []byte(`"v"`)))
		assert.FileExists(t, filepath.Join(dir, "proverbs.db"))
	})

	t.Run("memory", func(t *testing.T) {
		b, err := kv.Open(ctx, kv.Config{Kind: kv.KindMemory})
		require.NoError(t, err)
		assert.IsType(t, &memory.Backend{}, b)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := kv.Open(ctx, kv.Config{Kind: "redis"})
		require.Error(t, err)
	})

	t.Run("unusable directory falls back to memory", func(t *testing.T) {
		logger := logging.NewTestLogger(t)
		ctx := logging.WithLogger(ctx, logger.Logger)

		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		b, err := kv.Open(ctx, kv.Config{Kind: kv.KindFile, Dir: filepath.Join(blocker, "data")})
		require.NoError(t, err)
		assert.IsType(t, &memory.Backend{}, b)
		assert.True(t, logger.Contains("Storage unavailable"))
	})
}

func TestWatchExternalChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()

	ours, err := file.New(dir)
	require.NoError(t, err)
	theirs, err := file.New(dir)
	require.NoError(t, err)

	local := kv.NewValue[[]int](ours, "numbers", emptyInts)
	remote := kv.NewValue[[]int](theirs, "numbers", emptyInts)

	require.NoError(t, local.Watch(ctx))
	defer local.Close()

	rec := &recorder{}
	local.Subscribe(rec.record)

	require.NoError(t, remote.Write(ctx, []int{4, 5}))

	require.Eventually(t, func() bool {
		for _, e := range rec.snapshot() {
			if e.trigger == kv.TriggerExternal {
				return true
			}
		}
		return false
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, []int{4, 5}, local.Read(ctx))

	// Our own writes are delivered once, as writes.
	before := len(rec.snapshot())
	require.NoError(t, local.Write(ctx, []int{6}))
	time.Sleep(400 * time.Millisecond)

	after := rec.snapshot()[before:]
	require.Len(t, after, 1)
	assert.Equal(t, kv.TriggerWrite, after[0].trigger)
}

func TestWatchUnsupportedBackend(t *testing.T) {
	v := kv.NewValue(memory.New(), "numbers", emptyInts)
	require.NoError(t, v.Watch(context.Background()))
	require.NoError(t, v.Close())
}
