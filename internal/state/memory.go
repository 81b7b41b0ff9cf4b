package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the single-replica default.
type MemoryStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]memoryEntry
}

type memoryEntry struct {
	login Login
	exp   time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ttl: TTL,
		m:   make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Put(_ context.Context, token string, login Login) error {
	s.mu.Lock()
	s.m[token] = memoryEntry{login: login, exp: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Take(_ context.Context, token string) (Login, bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[token]
	if !ok {
		return Login{}, false, nil
	}

	delete(s.m, token)

	if now.After(e.exp) {
		return Login{}, false, nil
	}

	return e.login, true, nil
}
