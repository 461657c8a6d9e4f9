// Package session keeps each visitor's pricing choices in memory for the
// lifetime of their browsing session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nicodev/webstudio/internal/pricing"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 2 * time.Hour

// State is one visitor's quote selection and comparison picks.
type State struct {
	mu         sync.Mutex
	selection  pricing.Selection
	comparison pricing.Comparison
	lastSeen   time.Time
}

// Do runs fn with exclusive access to the session's state.
func (s *State) Do(fn func(sel *pricing.Selection, cmp *pricing.Comparison)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.selection, &s.comparison)
}

// Store is an in-memory, TTL-bounded session map. Nothing is persisted.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*State
	ttl      time.Duration
	now      func() time.Time
	onChange func(active int)
}

// NewStore creates a store that forgets sessions idle for longer than ttl.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*State),
		ttl:      ttl,
		now:      time.Now,
	}
}

// OnChange registers fn to receive the session count after it changes.
// Call it before the store is shared.
func (st *Store) OnChange(fn func(active int)) {
	st.onChange = fn
}

func (st *Store) notify(active int) {
	if st.onChange != nil {
		st.onChange(active)
	}
}

// Create starts a new session.
func (st *Store) Create() (string, *State) {
	id := uuid.NewString()
	s := &State{lastSeen: st.now()}

	st.mu.Lock()
	st.sessions[id] = s
	n := len(st.sessions)
	st.mu.Unlock()
	st.notify(n)
	return id, s
}

// Get returns a live session and refreshes its idle timer.
func (st *Store) Get(id string) (*State, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := st.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.lastSeen) > st.ttl {
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

// Delete ends a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()
	st.notify(n)
}

// Len is the number of sessions held, expired ones included until swept.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle since before now-ttl and returns how many.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	removed := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		expired := now.Sub(s.lastSeen) > st.ttl
		s.mu.Unlock()
		if expired {
			delete(st.sessions, id)
			removed++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	if removed > 0 {
		st.notify(n)
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep(st.now())
		}
	}
}
