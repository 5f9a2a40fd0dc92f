package api

import (
	"context"
	"sync"

	"github.com/agentstation/proverbs/pkg/proverb"
)

// Fetcher loads one proverb.
type Fetcher func(ctx context.Context) (proverb.Proverb, error)

// QueryState is a snapshot of a Query.
type QueryState struct {
	Loading bool
	Err     error
	Proverb proverb.Proverb
	// Loaded is false until a fetch has succeeded.
	Loaded bool
}

// Query holds the loading, error and last known proverb of a view. Fetches
// are never cancelled by newer ones; whichever resolves last determines the
// state. A failure keeps the last known proverb.
type Query struct {
	mu       sync.Mutex
	state    QueryState
	inFlight int
	subs     []func(QueryState)
}

// NewQuery creates an idle query.
func NewQuery() *Query {
	return &Query{}
}

// State returns the current snapshot.
func (q *Query) State() QueryState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// OnChange registers fn to receive every new state.
func (q *Query) OnChange(fn func(QueryState)) {
	q.mu.Lock()
	q.subs = append(q.subs, fn)
	q.mu.Unlock()
}

// Run executes fetch, updating the state before and after, and returns the
// state as left by this fetch.
func (q *Query) Run(ctx context.Context, fetch Fetcher) QueryState {
	q.update(func(s *QueryState) {
		q.inFlight++
		s.Loading = true
	})

	p, err := fetch(ctx)

	return q.update(func(s *QueryState) {
		q.inFlight--
		s.Loading = q.inFlight > 0
		if err != nil {
			s.Err = err
			return
		}
		s.Err = nil
		s.Proverb = p
		s.Loaded = true
	})
}

func (q *Query) update(fn func(*QueryState)) QueryState {
	q.mu.Lock()
	fn(&q.state)
	state := q.state
	subs := append(([]func(QueryState))(nil), q.subs...)
	q.mu.Unlock()

	for _, sub := range subs {
		sub(state)
	}
	return state
}
