package memory

import (
	"context"
	"errors"
	"sync"
	"time"
)

// StateStore is an in-memory store for issued OAuth state values with
// single-use consumption. Expired entries are swept lazily on Save.
type StateStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

// NewStateStore creates an empty in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// NewStateStoreWithClock creates a state store with a custom clock (useful for tests).
func NewStateStoreWithClock(now func() time.Time) *StateStore {
	store := NewStateStore()
	store.now = now
	return store
}

// Save records an issued state with the given expiry.
func (s *StateStore) Save(_ context.Context, state string, ttl time.Duration) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("state ttl must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for value, deadline := range s.expires {
		if now.After(deadline) {
			delete(s.expires, value)
		}
	}

	if _, ok := s.expires[state]; ok {
		return errors.New("state already issued")
	}
	s.expires[state] = now.Add(ttl)
	return nil
}

// Consume checks and discards a state under one lock, so a replayed state can
// never validate twice. Unknown and expired states both report false.
func (s *StateStore) Consume(_ context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deadline, ok := s.expires[state]
	if !ok {
		return false, nil
	}
	delete(s.expires, state)
	if s.now().After(deadline) {
		return false, nil
	}
	return true, nil
}
