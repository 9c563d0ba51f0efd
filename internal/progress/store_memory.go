package progress

import (
	"context"
	"sync"
)

// InMemoryStore keeps the completed set for the process lifetime only. It is
// the degraded mode when durable storage cannot be opened, and the test
// double.
type InMemoryStore struct {
	mu  sync.Mutex
	ids []string
}

// NewInMemoryStore returns an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Load(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out, nil
}

func (s *InMemoryStore) Save(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = dedupe(ids)
	return nil
}

func (s *InMemoryStore) Toggle(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, member := toggle(s.ids, id)
	s.ids = next
	return member, nil
}
