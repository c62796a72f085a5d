package querycache

import (
	"context"
	"sync"
	"time"
)

// Entry is one cached query result. Data is kept exactly as written.
type Entry struct {
	Data      []byte
	Stale     bool
	UpdatedAt time.Time
}

func (e Entry) clone() Entry {
	if e.Data != nil {
		e.Data = append([]byte(nil), e.Data...)
	}
	return e
}

// Store holds entries by key. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps entries in process memory. It never expires them.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]Entry{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry.clone(), ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry.clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
