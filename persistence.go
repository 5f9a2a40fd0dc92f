package proverbs

import (
	"context"

	"github.com/agentstation/proverbs/pkg/favorites"
	"github.com/agentstation/proverbs/pkg/kv"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence manages the locally stored favorites.
type Persistence interface {
	// Favorites returns the store shared by every view of this client.
	Favorites() *favorites.Store

	// ToggleFavorite adds p when absent and removes it when present.
	ToggleFavorite(ctx context.Context, p proverb.Proverb) (favorites.Outcome, error)

	// RemoveFavorite removes the favorite with id.
	RemoveFavorite(ctx context.Context, id int) (bool, error)

	// ListFavorites returns the collection in insertion order.
	ListFavorites(ctx context.Context) []proverb.Proverb

	// IsFavorite reports whether id is a favorite.
	IsFavorite(ctx context.Context, id int) bool

	// RefreshFavorites re-reads storage, as when a view regains focus.
	RefreshFavorites(ctx context.Context, trigger kv.Trigger) []proverb.Proverb
}

// Favorites returns the shared store.
func (c *client) Favorites() *favorites.Store { return c.favorites }

// ToggleFavorite adds or removes p.
func (c *client) ToggleFavorite(ctx context.Context, p proverb.Proverb) (favorites.Outcome, error) {
	return c.favorites.Toggle(ctx, p)
}

// RemoveFavorite removes the favorite with id.
func (c *client) RemoveFavorite(ctx context.Context, id int) (bool, error) {
	return c.favorites.Remove(ctx, id)
}

// ListFavorites returns the collection.
func (c *client) ListFavorites(ctx context.Context) []proverb.Proverb {
	return c.favorites.List(ctx)
}

// IsFavorite reports whether id is a favorite.
func (c *client) IsFavorite(ctx context.Context, id int) bool {
	return c.favorites.IsFavorite(ctx, id)
}

// RefreshFavorites re-reads storage and notifies observers.
func (c *client) RefreshFavorites(ctx context.Context, trigger kv.Trigger) []proverb.Proverb {
	return c.favorites.Refresh(ctx, trigger)
}
