package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
)

type memoryEntry struct {
	userID  string
	expires time.Time
}

// MemoryStore is an in-memory Store used in tests. Expiry is checked
// lazily on read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[KeyPrefix+token] = memoryEntry{userID: userID, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[KeyPrefix+token]
	if !ok {
		return "", common.ErrorNotFound
	}
	if s.now().After(e.expires) {
		delete(s.entries, KeyPrefix+token)
		return "", common.ErrorNotFound
	}
	return e.userID, nil
}

func (s *MemoryStore) Del(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, KeyPrefix+token)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
