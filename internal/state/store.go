package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cbdpascher/storefront/internal/catalog"
)

type entry struct {
	state    *AppState
	lastSeen time.Time
}

// Store keeps one AppState per visit and forgets visits idle for longer than ttl.
type Store struct {
	mu     sync.Mutex
	visits map[uuid.UUID]*entry
	ttl    time.Duration
	seed   func() catalog.Catalog
	now    func() time.Time
}

// NewStore returns a store whose new visits start from seed's catalog.
func NewStore(ttl time.Duration, seed func() catalog.Catalog) *Store {
	return &Store{
		visits: make(map[uuid.UUID]*entry),
		ttl:    ttl,
		seed:   seed,
		now:    time.Now,
	}
}

func (s *Store) Create() (uuid.UUID, *AppState) {
	id := uuid.New()
	st := New(s.seed())

	s.mu.Lock()
	s.visits[id] = &entry{state: st, lastSeen: s.now()}
	s.mu.Unlock()

	return id, st
}

// Get returns the visit's state and marks it as recently used.
func (s *Store) Get(id uuid.UUID) (*AppState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.visits[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.state, true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visits)
}

// Evict drops visits not seen since ttl before now and cancels their pending
// operations. It returns how many were removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	var stale []*AppState
	for id, e := range s.visits {
		if now.Sub(e.lastSeen) > s.ttl {
			stale = append(stale, e.state)
			delete(s.visits, id)
		}
	}
	s.mu.Unlock()

	for _, st := range stale {
		st.mu.Lock()
		st.cancelPendingLocked()
		st.mu.Unlock()
	}
	return len(stale)
}

// Run evicts idle visits every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Evict(s.now()); n > 0 {
				slog.Debug("visits_evicted", "count", n, "remaining", s.Len())
			}
		}
	}
}
