package session

import (
	"sync"
	"time"

	"pibdash/internal/models"

	"github.com/patrickmn/go-cache"
)

// Store keeps one FilterState per session id. Idle sessions expire after the
// TTL; every read or write slides the expiry forward.
type Store struct {
	cache    *cache.Cache
	ttl      time.Duration
	defaults func() models.FilterState
	mu       sync.Mutex
}

// NewStore creates a store whose new sessions start from defaults().
func NewStore(ttl time.Duration, defaults func() models.FilterState) *Store {
	return &Store{
		cache:    cache.New(ttl, 10*time.Minute),
		ttl:      ttl,
		defaults: defaults,
	}
}

// Get returns the session's state, initialising it from the defaults when the
// session is new or has expired.
func (s *Store) Get(id string) models.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id).Clone()
}

// Save replaces the session's state.
func (s *Store) Save(id string, state models.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(id, state.Clone(), s.ttl)
}

// Update applies fn to the current state and stores the result atomically with
// respect to other calls on the same store.
func (s *Store) Update(id string, fn func(*models.FilterState) error) (models.FilterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(id).Clone()
	if err := fn(&state); err != nil {
		return models.FilterState{}, err
	}
	s.cache.Set(id, state.Clone(), s.ttl)
	return state, nil
}

// Reset puts the session back to the default state.
func (s *Store) Reset(id string) models.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.defaults()
	s.cache.Set(id, state.Clone(), s.ttl)
	return state
}

// Count is the number of live sessions, expired ones included until the
// janitor runs.
func (s *Store) Count() int {
	return s.cache.ItemCount()
}

func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Flush()
}

// load must be called with mu held.
func (s *Store) load(id string) models.FilterState {
	if cached, found := s.cache.Get(id); found {
		if state, ok := cached.(models.FilterState); ok {
			s.cache.Set(id, state, s.ttl)
			return state
		}
	}
	state := s.defaults()
	s.cache.Set(id, state, s.ttl)
	return state
}
