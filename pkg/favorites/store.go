// Package favorites keeps the user's favorite proverbs in local storage and
// broadcasts every change to the views observing them.
package favorites

import (
	"context"

	"github.com/agentstation/proverbs/pkg/constants"
	"github.com/agentstation/proverbs/pkg/kv"
	"github.com/agentstation/proverbs/pkg/logging"
	"github.com/agentstation/proverbs/pkg/notifier"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// Confirmation messages.
const (
	MsgAdded           = "Added to favorites!"
	MsgRemoved         = "Removed from favorites."
	MsgRemovedFromList = "Removed from favorites"
)

// Outcome is the effect of a toggle.
type Outcome int

const (
	// Added means the proverb was appended.
	Added Outcome = iota + 1
	// Removed means the proverb was removed.
	Removed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "none"
	}
}

// Listener observes the collection after every change.
type Listener func(list []proverb.Proverb, trigger kv.Trigger)

// Store is the favorites collection. Entries are unique by id and kept in
// insertion order. A Store is safe for concurrent use.
type Store struct {
	value    *kv.Value[[]proverb.Proverb]
	notifier notifier.Notifier
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets where confirmations go.
func WithNotifier(n notifier.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// New binds a store to the favorites key of backend.
func New(backend kv.Backend, opts ...Option) *Store {
	s := &Store{
		value:    kv.NewValue(backend, constants.FavoritesKey, func() []proverb.Proverb { return []proverb.Proverb{} }),
		notifier: notifier.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a copy of the collection.
func (s *Store) List(ctx context.Context) []proverb.Proverb {
	return clone(s.value.Read(ctx))
}

// IsFavorite reports whether a proverb with id is in the collection.
func (s *Store) IsFavorite(ctx context.Context, id int) bool {
	return indexOf(s.value.Read(ctx), id) >= 0
}

// Get returns the favorite with id.
func (s *Store) Get(ctx context.Context, id int) (proverb.Proverb, bool) {
	list := s.value.Read(ctx)
	if i := indexOf(list, id); i >= 0 {
		return list[i], true
	}
	return proverb.Proverb{}, false
}

// Search returns favorites whose text matches query, ignoring case and tone
// marks. An empty query matches everything.
func (s *Store) Search(ctx context.Context, query string) []proverb.Proverb {
	var out []proverb.Proverb
	for _, p := range s.value.Read(ctx) {
		if p.Matches(query) {
			out = append(out, p)
		}
	}
	return out
}

// Toggle removes p when it is a favorite and appends it otherwise, persists
// the collection, and confirms the result to the user. When the collection
// cannot be stored nothing changes and the error is returned. A proverb
// without an id or text is rejected with a validation error.
func (s *Store) Toggle(ctx context.Context, p proverb.Proverb) (Outcome, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	ctx = logging.WithProverb(ctx, p.ID)

	var outcome Outcome
	_, err := s.value.Update(ctx, func(cur []proverb.Proverb) []proverb.Proverb {
		if indexOf(cur, p.ID) >= 0 {
			outcome = Removed
			return without(cur, p.ID)
		}
		outcome = Added
		return append(clone(cur), p.Normalize())
	})
	if err != nil {
		return 0, err
	}

	logging.FromContext(ctx).Debug().Stringer("outcome", outcome).Msg("Favorite toggled")
	if outcome == Added {
		s.notifier.Notify(notifier.LevelSuccess, MsgAdded)
	} else {
		s.notifier.Notify(notifier.LevelInfo, MsgRemoved)
	}
	return outcome, nil
}

// Remove deletes the favorite with id and reports whether it was present.
func (s *Store) Remove(ctx context.Context, id int) (bool, error) {
	ctx = logging.WithProverb(ctx, id)

	var removed bool
	_, err := s.value.Update(ctx, func(cur []proverb.Proverb) []proverb.Proverb {
		if indexOf(cur, id) < 0 {
			return cur
		}
		removed = true
		return without(cur, id)
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.notifier.Notify(notifier.LevelSuccess, MsgRemovedFromList)
	}
	return removed, nil
}

// Subscribe registers l for every change and returns a function that
// removes it.
func (s *Store) Subscribe(l Listener) func() {
	return s.value.Subscribe(func(list []proverb.Proverb, trigger kv.Trigger) {
		l(clone(list), trigger)
	})
}

// Refresh re-reads the collection from storage, for example when a view
// regains focus, and broadcasts the result.
func (s *Store) Refresh(ctx context.Context, trigger kv.Trigger) []proverb.Proverb {
	return clone(s.value.Refresh(ctx, trigger))
}

// Watch delivers changes written by other processes as TriggerExternal.
func (s *Store) Watch(ctx context.Context) error {
	return s.value.Watch(ctx)
}

// Close stops watching.
func (s *Store) Close() error {
	return s.value.Close()
}

func indexOf(list []proverb.Proverb, id int) int {
	for i, p := range list {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func without(list []proverb.Proverb, id int) []proverb.Proverb {
	out := make([]proverb.Proverb, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// clone copies list, dropping repeated ids that a hand-edited store may hold.
func clone(list []proverb.Proverb) []proverb.Proverb {
	out := make([]proverb.Proverb, 0, len(list))
	seen := make(map[int]struct{}, len(list))
	for _, p := range list {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
