package proverbs

import (
	"sync"

	"github.com/agentstation/proverbs/pkg/kv"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// Hook function types for favorites events
type (
	// FavoriteAddedHook is called when a proverb joins the favorites
	FavoriteAddedHook func(p proverb.Proverb)

	// FavoriteRemovedHook is called when a proverb leaves the favorites
	FavoriteRemovedHook func(p proverb.Proverb)

	// FavoritesChangedHook is called with the whole collection after any change,
	// including changes made by other processes
	FavoritesChangedHook func(list []proverb.Proverb, trigger kv.Trigger)
)

// Hooks registers favorites event callbacks.
type Hooks interface {
	OnFavoriteAdded(FavoriteAddedHook)
	OnFavoriteRemoved(FavoriteRemovedHook)
	OnFavoritesChanged(FavoritesChangedHook)
}

// hooks manages event callbacks for favorites changes
type hooks struct {
	mu                 sync.RWMutex
	onFavoriteAdded    []FavoriteAddedHook
	onFavoriteRemoved  []FavoriteRemovedHook
	onFavoritesChanged []FavoritesChangedHook

	// last is the collection seen by the previous trigger
	lastMu sync.Mutex
	last   []proverb.Proverb
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnFavoriteAdded registers a callback for added favorites
func (h *hooks) OnFavoriteAdded(fn FavoriteAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFavoriteAdded = append(h.onFavoriteAdded, fn)
}

// OnFavoriteRemoved registers a callback for removed favorites
func (h *hooks) OnFavoriteRemoved(fn FavoriteRemovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFavoriteRemoved = append(h.onFavoriteRemoved, fn)
}

// OnFavoritesChanged registers a callback for every collection change
func (h *hooks) OnFavoritesChanged(fn FavoritesChangedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFavoritesChanged = append(h.onFavoritesChanged, fn)
}

// prime sets the baseline the first change is compared against
func (h *hooks) prime(list []proverb.Proverb) {
	h.lastMu.Lock()
	h.last = list
	h.lastMu.Unlock()
}

// triggerFavoritesUpdate compares the previous and new collections and
// triggers the matching hooks
func (h *hooks) triggerFavoritesUpdate(list []proverb.Proverb, trigger kv.Trigger) {
	h.lastMu.Lock()
	old := h.last
	h.last = list
	h.lastMu.Unlock()

	oldByID := make(map[int]proverb.Proverb, len(old))
	for _, p := range old {
		oldByID[p.ID] = p
	}
	newByID := make(map[int]struct{}, len(list))
	for _, p := range list {
		newByID[p.ID] = struct{}{}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, p := range list {
		if _, existed := oldByID[p.ID]; !existed {
			for _, hook := range h.onFavoriteAdded {
				hook(p)
			}
		}
	}
	for _, p := range old {
		if _, exists := newByID[p.ID]; !exists {
			for _, hook := range h.onFavoriteRemoved {
				hook(p)
			}
		}
	}
	for _, hook := range h.onFavoritesChanged {
		hook(list, trigger)
	}
}
