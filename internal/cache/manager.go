package cache

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/agentflow/internal/kvstore"
	"github.com/guttosm/agentflow/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Manager is a namespaced cache over a kvstore.Store. Backend failures are
// logged and reported as misses or false results; they are never returned
// to the caller.
type Manager struct {
	store kvstore.Store
	opts  Options
}

// NewManager creates a Manager writing to store.
func NewManager(store kvstore.Store, opts Options) *Manager {
	return &Manager{store: store, opts: opts.withDefaults()}
}

// Name returns the label used for logs and metrics.
func (m *Manager) Name() string { return m.opts.Name }

// Prefix returns the namespace prefix.
func (m *Manager) Prefix() string { return m.opts.Prefix }

// DefaultTTL returns the TTL applied when callers pass zero.
func (m *Manager) DefaultTTL() time.Duration { return m.opts.DefaultTTL }

// Store returns the backing store.
func (m *Manager) Store() kvstore.Store { return m.store }

func (m *Manager) ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}
	return m.opts.DefaultTTL
}

// Get returns the value stored under key.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := m.store.Get(ctx, ComposeKey(m.opts.Prefix, key))
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Warn().Err(err).Str("cache", m.opts.Name).Str("key", key).Msg("Cache get failed")
			metrics.RecordCacheOperation(m.opts.Name, "get", "error")
			return nil, false
		}
		metrics.RecordCacheOperation(m.opts.Name, "get", "miss")
		return nil, false
	}
	metrics.RecordCacheOperation(m.opts.Name, "get", "hit")
	return value, true
}

// Set stores value under key for ttl, or the default TTL when ttl is zero.
func (m *Manager) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if err := m.store.SetWithExpiry(ctx, ComposeKey(m.opts.Prefix, key), value, m.ttlOrDefault(ttl)); err != nil {
		log.Warn().Err(err).Str("cache", m.opts.Name).Str("key", key).Msg("Cache set failed")
		metrics.RecordCacheOperation(m.opts.Name, "set", "error")
		return false
	}
	metrics.RecordCacheOperation(m.opts.Name, "set", "success")
	return true
}

// Delete removes key.
func (m *Manager) Delete(ctx context.Context, key string) bool {
	if err := m.store.Delete(ctx, ComposeKey(m.opts.Prefix, key)); err != nil {
		log.Warn().Err(err).Str("cache", m.opts.Name).Str("key", key).Msg("Cache delete failed")
		metrics.RecordCacheOperation(m.opts.Name, "delete", "error")
		return false
	}
	metrics.RecordCacheOperation(m.opts.Name, "delete", "success")
	return true
}

// GetOrSet returns the cached value for key, or calls fetch and stores its
// result. Fetch errors are returned; a failed write after a successful fetch
// still returns the fetched value.
func (m *Manager) GetOrSet(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) ([]byte, error) {
	if value, ok := m.Get(ctx, key); ok {
		return value, nil
	}
	value, err := timedFetch(ctx, m.opts.Name, "cold", fetch)
	if err != nil {
		return nil, err
	}
	m.Set(ctx, key, value, ttl)
	return value, nil
}

// InvalidatePattern deletes every key in the namespace matching the glob
// pattern. It is best effort and not atomic with respect to concurrent
// writers.
func (m *Manager) InvalidatePattern(ctx context.Context, pattern string) bool {
	keys, err := m.store.KeysMatching(ctx, ComposeKey(m.opts.Prefix, pattern))
	if err != nil {
		log.Warn().Err(err).Str("cache", m.opts.Name).Str("pattern", pattern).Msg("Cache key scan failed")
		metrics.RecordCacheOperation(m.opts.Name, "invalidate", "error")
		return false
	}
	if len(keys) == 0 {
		return true
	}
	if err := m.store.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Str("cache", m.opts.Name).Str("pattern", pattern).Msg("Cache invalidation failed")
		metrics.RecordCacheOperation(m.opts.Name, "invalidate", "error")
		return false
	}
	log.Debug().Str("cache", m.opts.Name).Str("pattern", pattern).Int("keys", len(keys)).Msg("Cache pattern invalidated")
	metrics.RecordCacheOperation(m.opts.Name, "invalidate", "success")
	return true
}

// Ping checks the backing store.
func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

func timedFetch(ctx context.Context, name, mode string, fetch FetchFunc) ([]byte, error) {
	start := time.Now()
	value, err := fetch(ctx)
	metrics.RecordFetch(name, mode, time.Since(start))
	return value, err
}
