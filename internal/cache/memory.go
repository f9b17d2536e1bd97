package cache

import (
	"context"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/agentflow/internal/kvstore"
	"github.com/guttosm/agentflow/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Memory is a process-local tier. Entries expire lazily: an expired entry is
// removed by the read that finds it. There is no capacity bound and no
// background sweep, so it suits short TTLs in front of a shared tier.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	opts    Options

	hits   int64
	misses int64
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Stats reports counters for a Memory tier.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int
}

// NewMemory creates an empty Memory tier.
func NewMemory(opts Options) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		opts:    opts.withDefaults(),
	}
}

// Name returns the label used for logs and metrics.
func (c *Memory) Name() string { return c.opts.Name }

// Get returns a copy of the value stored under key.
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	k := ComposeKey(c.opts.Prefix, key)

	c.mu.RLock()
	entry, ok := c.entries[k]
	c.mu.RUnlock()

	if !ok {
		c.miss("miss")
		return nil, false
	}
	if !c.opts.Clock.Now().Before(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have replaced it.
		if current, still := c.entries[k]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, k)
		}
		c.mu.Unlock()
		c.miss("expired")
		return nil, false
	}

	atomic.AddInt64(&c.hits, 1)
	metrics.RecordCacheOperation(c.opts.Name, "get", "hit")
	return clone(entry.value), true
}

func (c *Memory) miss(result string) {
	atomic.AddInt64(&c.misses, 1)
	metrics.RecordCacheOperation(c.opts.Name, "get", result)
}

// Set stores a copy of value under key.
func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = c.opts.DefaultTTL
	}
	entry := memoryEntry{value: clone(value), expiresAt: c.opts.Clock.Now().Add(ttl)}

	c.mu.Lock()
	c.entries[ComposeKey(c.opts.Prefix, key)] = entry
	c.mu.Unlock()

	metrics.RecordCacheOperation(c.opts.Name, "set", "success")
	return true
}

// Delete removes key. Deleting a missing key succeeds.
func (c *Memory) Delete(_ context.Context, key string) bool {
	c.mu.Lock()
	delete(c.entries, ComposeKey(c.opts.Prefix, key))
	c.mu.Unlock()

	metrics.RecordCacheOperation(c.opts.Name, "delete", "success")
	return true
}

// GetOrSet returns the cached value for key, or calls fetch and stores its
// result. Fetch errors are returned.
func (c *Memory) GetOrSet(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) ([]byte, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}
	value, err := timedFetch(ctx, c.opts.Name, "cold", fetch)
	if err != nil {
		return nil, err
	}
	c.Set(ctx, key, value, ttl)
	return value, nil
}

// InvalidatePattern deletes every key in the namespace matching the glob.
// Glob syntax is the same as the shared stores so the tiers agree on what a
// pattern selects.
func (c *Memory) InvalidatePattern(_ context.Context, pattern string) bool {
	re, err := regexp.Compile(kvstore.GlobToRegex(ComposeKey(c.opts.Prefix, pattern)))
	if err != nil {
		log.Warn().Err(err).Str("cache", c.opts.Name).Str("pattern", pattern).Msg("Invalid cache pattern")
		metrics.RecordCacheOperation(c.opts.Name, "invalidate", "error")
		return false
	}

	c.mu.Lock()
	for k := range c.entries {
		if re.MatchString(k) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()

	metrics.RecordCacheOperation(c.opts.Name, "invalidate", "success")
	return true
}

// Len returns the number of unexpired entries.
func (c *Memory) Len() int {
	now := c.opts.Clock.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// Flush removes every entry and resets the counters.
func (c *Memory) Flush() {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()

	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	metrics.RecordCacheOperation(c.opts.Name, "flush", "success")
}

// Stats returns hit and miss counters and the current size.
func (c *Memory) Stats() Stats {
	return Stats{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
		Size:   c.Len(),
	}
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
