package favorites_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/proverbs/pkg/favorites"
	"github.com/agentstation/proverbs/pkg/proverb"
)

func ids(n ...int) []proverb.Proverb {
	out := make([]proverb.Proverb, len(n))
	for i, id := range n {
		out[i] = proverb.Proverb{ID: id, Proverb: "p"}
	}
	return out
}

func selected(t *testing.T, s *favorites.Selection) int {
	t.Helper()
	id, ok := s.ID()
	if !ok {
		t.Fatalf("expected a selection, state is %s", s.State())
	}
	return id
}

func TestSelectionLoad(t *testing.T) {
	var s favorites.Selection
	assert.Equal(t, favorites.NoFavorites, s.State())

	s.Load(ids())
	assert.Equal(t, favorites.NoFavorites, s.State())

	s.Load(ids(4, 5))
	assert.Equal(t, 4, selected(t, &s))

	// A surviving selection is kept across reloads.
	assert.True(t, s.Select(5, ids(4, 5)))
	s.Load(ids(4, 5, 6))
	assert.Equal(t, 5, selected(t, &s))
}

func TestSelectionRemoveSelected(t *testing.T) {
	var s favorites.Selection
	s.Load(ids(1, 2))
	assert.Equal(t, 1, selected(t, &s))

	s.Removed(1, ids(2))
	assert.Equal(t, 2, selected(t, &s))

	s.Removed(2, ids())
	_, ok := s.ID()
	assert.False(t, ok)
	assert.Equal(t, favorites.NoFavorites, s.State())
}

func TestSelectionRemoveOther(t *testing.T) {
	var s favorites.Selection
	s.Load(ids(1, 2, 3))
	assert.True(t, s.Select(3, ids(1, 2, 3)))

	s.Removed(1, ids(2, 3))
	assert.Equal(t, 3, selected(t, &s))
}

func TestSelectionSelect(t *testing.T) {
	var s favorites.Selection
	list := ids(1, 2)
	s.Load(list)

	assert.True(t, s.Select(2, list))
	assert.Equal(t, 2, selected(t, &s))
	assert.False(t, s.Select(9, list))
	assert.Equal(t, 2, selected(t, &s))

	p, ok := s.Current(list)
	assert.True(t, ok)
	assert.Equal(t, 2, p.ID)
}

func TestSelectionDeselectAndSync(t *testing.T) {
	var s favorites.Selection
	s.Load(ids(1, 2))
	s.Deselect(ids(1, 2))
	assert.Equal(t, favorites.NoSelection, s.State())

	// An external change does not force a selection back.
	s.Sync(ids(1, 2, 3))
	assert.Equal(t, favorites.NoSelection, s.State())

	assert.True(t, s.Select(2, ids(1, 2, 3)))
	s.Sync(ids(1, 3))
	assert.Equal(t, 1, selected(t, &s))

	s.Sync(ids())
	assert.Equal(t, favorites.NoFavorites, s.State())

	s.Sync(ids(8))
	assert.Equal(t, 8, selected(t, &s))
}

func TestSelectionStateString(t *testing.T) {
	assert.Equal(t, "empty", favorites.NoFavorites.String())
	assert.Equal(t, "no-selection", favorites.NoSelection.String())
	assert.Equal(t, "selected", favorites.Selected.String())
}
