package kvstore

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/guttosm/agentflow/internal/clock"
)

// MemoryStore is a process-local Store. Expiry is evaluated against the
// configured clock on every read, which makes it the backend of choice for
// tests and single-instance development.
type MemoryStore struct {
	mu      sync.RWMutex
	clock   clock.Clock
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore creates an empty MemoryStore. A nil clock uses the system clock.
func NewMemoryStore(c clock.Clock) *MemoryStore {
	return &MemoryStore{
		clock:   clock.OrSystem(c),
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) live(e memoryEntry) bool {
	return e.expiresAt.IsZero() || s.clock.Now().Before(e.expiresAt)
}

// Get returns a copy of the value for key. An expired entry is removed by the
// read that finds it.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !s.live(e) {
		s.mu.Lock()
		if current, still := s.entries[key]; still && current.expiresAt.Equal(e.expiresAt) && !s.live(current) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	cp := make([]byte, len(e.value))
	copy(cp, e.value)
	return cp, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	return s.put(key, value, time.Time{})
}

func (s *MemoryStore) SetWithExpiry(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("kvstore: invalid ttl %s", ttl)
	}
	return s.put(key, value, s.clock.Now().Add(ttl))
}

func (s *MemoryStore) put(key string, value []byte, expiresAt time.Time) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	s.mu.Lock()
	s.entries[key] = memoryEntry{value: cp, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

func (s *MemoryStore) KeysMatching(_ context.Context, pattern string) ([]string, error) {
	re, err := regexp.Compile(GlobToRegex(pattern))
	if err != nil {
		return nil, fmt.Errorf("kvstore: bad pattern %q: %w", pattern, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k, e := range s.entries {
		if s.live(e) && re.MatchString(k) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
