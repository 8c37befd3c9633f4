package auth

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	userID  string
	expires time.Time
}

// InMemoryTokenStore implements TokenStore for tests and local development.
type InMemoryTokenStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewInMemoryTokenStore returns a TokenStore backed by an in-memory map.
func NewInMemoryTokenStore() *InMemoryTokenStore {
	return &InMemoryTokenStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Save stores the mapping with the provided TTL.
func (s *InMemoryTokenStore) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[token] = memoryEntry{userID: userID, expires: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Find retrieves an unexpired mapping. Expired entries are removed lazily and
// reported exactly like never-created ones.
func (s *InMemoryTokenStore) Find(_ context.Context, token string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return "", false, nil
	}
	if s.now().After(entry.expires) {
		delete(s.entries, token)
		return "", false, nil
	}
	return entry.userID, true, nil
}

// Delete removes the mapping, if present.
func (s *InMemoryTokenStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

// Ping always succeeds for the in-memory store.
func (s *InMemoryTokenStore) Ping(context.Context) error {
	return nil
}

// WithNowFunc allows tests to override the time source.
func (s *InMemoryTokenStore) WithNowFunc(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

var _ TokenStore = (*InMemoryTokenStore)(nil)
