package weather

import (
	"context"
	"sync"
	"time"

	"kjorefore/internal/types"
)

// Entry is one cached forecast series keyed by its spatial/temporal
// bucket. Entries are owned exclusively by the client's store and never
// exposed outside the package.
type Entry struct {
	Key       string
	Series    types.ForecastSeries
	FetchedAt time.Time
	ExpiresAt time.Time
}

// Store is the cache backend behind the weather client. Implementations
// must be safe for concurrent use; the client treats every store error as
// a cache miss.
type Store interface {
	// Get returns the entry for key, or nil when absent. Expiry is the
	// caller's concern: expired entries are returned as-is.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set inserts or replaces the entry for e.Key.
	Set(ctx context.Context, e *Entry) error

	// Sweep deletes all entries whose expiry is at or before now and
	// reports how many were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}

// MemoryStore is the default in-process Store: a mutex-guarded map with
// lazy expiry. Its lifetime is the process lifetime.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key], nil
}

func (s *MemoryStore) Set(_ context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Key] = e
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if !now.Before(e.ExpiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*Entry)
	return nil
}

// Len reports the number of entries currently held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
