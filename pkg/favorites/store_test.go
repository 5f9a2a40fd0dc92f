package favorites_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/favorites"
	"github.com/agentstation/proverbs/pkg/kv"
	"github.com/agentstation/proverbs/pkg/kv/file"
	"github.com/agentstation/proverbs/pkg/kv/memory"
	"github.com/agentstation/proverbs/pkg/notifier"
	"github.com/agentstation/proverbs/pkg/proverb"
)

func sample(id int) proverb.Proverb {
	return proverb.Proverb{
		ID:          id,
		Proverb:     "Àgbà kì í wà lọ́jà, kí orí ọmọ títún wọ́",
		Translation: "An elder cannot be at the market and let a child's head be badly placed.",
		Wisdom:      "Elders are responsible for guidance.",
	}
}

type brokenBackend struct{ *memory.Backend }

func (brokenBackend) Set(context.Context, string, []byte) error {
	return errors.New("storage full")
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	rec := &notifier.Recorder{}
	store := favorites.New(memory.New(), favorites.WithNotifier(rec))

	outcome, err := store.Toggle(ctx, sample(1))
	require.NoError(t, err)
	assert.Equal(t, favorites.Added, outcome)
	assert.True(t, store.IsFavorite(ctx, 1))

	outcome, err = store.Toggle(ctx, sample(1))
	require.NoError(t, err)
	assert.Equal(t, favorites.Removed, outcome)
	assert.False(t, store.IsFavorite(ctx, 1))

	assert.Equal(t, []notifier.Notice{
		{Level: notifier.LevelSuccess, Message: "Added to favorites!"},
		{Level: notifier.LevelInfo, Message: "Removed from favorites."},
	}, rec.Notices())
}

func TestToggleParity(t *testing.T) {
	ctx := context.Background()
	store := favorites.New(memory.New())
	rng := rand.New(rand.NewSource(7))

	counts := map[int]int{}
	for i := 0; i < 200; i++ {
		id := rng.Intn(6) + 1
		counts[id]++
		_, err := store.Toggle(ctx, sample(id))
		require.NoError(t, err)
	}

	list := store.List(ctx)
	seen := map[int]bool{}
	for _, p := range list {
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
	}
	for id, n := range counts {
		assert.Equal(t, n%2 == 1, store.IsFavorite(ctx, id), "id %d toggled %d times", id, n)
	}
}

func TestIsFavorite(t *testing.T) {
	ctx := context.Background()

	empty := favorites.New(memory.New())
	assert.False(t, empty.IsFavorite(ctx, 5))

	one := favorites.New(memory.New())
	_, err := one.Toggle(ctx, sample(5))
	require.NoError(t, err)
	assert.True(t, one.IsFavorite(ctx, 5))
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	backend, err := file.New(dir)
	require.NoError(t, err)
	first := favorites.New(backend)
	for _, id := range []int{3, 1, 2} {
		_, err := first.Toggle(ctx, sample(id))
		require.NoError(t, err)
	}

	reopened, err := file.New(dir)
	require.NoError(t, err)
	second := favorites.New(reopened)
	assert.Equal(t, first.List(ctx), second.List(ctx))

	ids := []int{}
	for _, p := range second.List(ctx) {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{3, 1, 2}, ids)
}

func TestMalformedStorageLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"not json":       "{{{",
		"wrong shape":    `{"id":1}`,
		"invalid record": `[{"id":0,"proverb":"x"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			b := memory.New()
			require.NoError(t, b.Set(ctx, "favoriteProverbs", []byte(raw)))
			store := favorites.New(b)
			assert.Empty(t, store.List(ctx))
			assert.False(t, store.IsFavorite(ctx, 1))
		})
	}
}

func TestDuplicatesInStorageAreCollapsed(t *testing.T) {
	ctx := context.Background()
	b := memory.New()
	require.NoError(t, b.Set(ctx, "favoriteProverbs",
		[]byte(`[{"id":1,"proverb":"a"},{"id":1,"proverb":"b"},{"id":2,"proverb":"c"}]`)))

	list := favorites.New(b).List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Proverb)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	rec := &notifier.Recorder{}
	store := favorites.New(memory.New(), favorites.WithNotifier(rec))
	_, err := store.Toggle(ctx, sample(1))
	require.NoError(t, err)

	removed, err := store.Remove(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Remove(ctx, 1)
	require.NoError(t, err)
	assert.False(t, removed)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Removed from favorites", last.Message)
	assert.Len(t, rec.Notices(), 2)
}

func TestWriteFailureKeepsCollection(t *testing.T) {
	ctx := context.Background()
	rec := &notifier.Recorder{}
	store := favorites.New(brokenBackend{memory.New()}, favorites.WithNotifier(rec))

	_, err := store.Toggle(ctx, sample(1))
	require.Error(t, err)
	assert.False(t, store.IsFavorite(ctx, 1))
	assert.Empty(t, rec.Notices())
}

func TestToggleRejectsInvalidProverb(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend, err := file.New(dir)
	require.NoError(t, err)

	rec := &notifier.Recorder{}
	store := favorites.New(backend, favorites.WithNotifier(rec))
	for _, id := range []int{1, 2} {
		_, err := store.Toggle(ctx, sample(id))
		require.NoError(t, err)
	}

	for _, bad := range []proverb.Proverb{{}, {ID: 3}, {ID: 3, Proverb: "   "}} {
		_, err := store.Toggle(ctx, bad)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidationError(err))
	}
	assert.Len(t, store.List(ctx), 2)
	assert.Len(t, rec.Notices(), 2)

	reopened, err := file.New(dir)
	require.NoError(t, err)
	fresh := favorites.New(reopened)
	assert.Equal(t, []int{1, 2}, idsOf(fresh.List(ctx)))

	_, err = fresh.Toggle(ctx, sample(4))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4}, idsOf(favorites.New(reopened).List(ctx)))
}

func idsOf(list []proverb.Proverb) []int {
	out := []int{}
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func TestGetAndSearch(t *testing.T) {
	ctx := context.Background()
	store := favorites.New(memory.New())
	_, err := store.Toggle(ctx, proverb.Proverb{ID: 1, Proverb: "Ọ̀rọ̀ púpọ̀", Translation: "Many words"})
	require.NoError(t, err)
	_, err = store.Toggle(ctx, proverb.Proverb{ID: 2, Proverb: "Ilé ọba tó jó", Translation: "The king's house that burned"})
	require.NoError(t, err)

	p, ok := store.Get(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, 2, p.ID)
	_, ok = store.Get(ctx, 9)
	assert.False(t, ok)

	hits := store.Search(ctx, "oro pupo")
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].ID)
	assert.Len(t, store.Search(ctx, ""), 2)
}

func TestSubscribeSeesEveryView(t *testing.T) {
	ctx := context.Background()
	store := favorites.New(memory.New())

	var lists [][]proverb.Proverb
	var triggers []kv.Trigger
	unsubscribe := store.Subscribe(func(list []proverb.Proverb, trigger kv.Trigger) {
		lists = append(lists, list)
		triggers = append(triggers, trigger)
	})

	_, err := store.Toggle(ctx, sample(4))
	require.NoError(t, err)
	store.Refresh(ctx, kv.TriggerFocus)
	unsubscribe()
	_, err = store.Toggle(ctx, sample(4))
	require.NoError(t, err)

	require.Len(t, lists, 2)
	assert.Equal(t, []kv.Trigger{kv.TriggerWrite, kv.TriggerFocus}, triggers)
	assert.Equal(t, 4, lists[1][0].ID)
}

func TestListIsACopy(t *testing.T) {
	ctx := context.Background()
	store := favorites.New(memory.New())
	_, err := store.Toggle(ctx, sample(1))
	require.NoError(t, err)

	list := store.List(ctx)
	list[0].ID = 99
	assert.True(t, store.IsFavorite(ctx, 1))
}
