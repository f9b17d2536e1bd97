// Package cache implements the tiered caching core: a store-backed Manager,
// a process-local Memory tier, a Hierarchical composition of tiers and the
// Enhanced stale-while-revalidate cache guarded by a circuit breaker.
//
// Every tier stores opaque byte slices. Encoding lives at the call site, see
// GetAs, SetAs and GetOrSetAs.
package cache

import (
	"context"
	"time"

	"github.com/guttosm/agentflow/internal/clock"
)

// DefaultTTL is used when Options.DefaultTTL is not set.
const DefaultTTL = 300 * time.Second

// FetchFunc produces a fresh value for a key on a miss or a revalidation.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Tier is a single cache layer. Get reports a miss with false, Set and Delete
// report failure with false; backend errors never escape a tier. A ttl of
// zero on Set selects the tier's default TTL.
type Tier interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool
	Delete(ctx context.Context, key string) bool
}

// SWRTier is a tier that can serve stale values while refreshing them in the
// background.
type SWRTier interface {
	Tier
	GetWithSWR(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) ([]byte, error)
}

// PatternInvalidator is implemented by tiers that can drop keys by glob.
type PatternInvalidator interface {
	InvalidatePattern(ctx context.Context, pattern string) bool
}

// Options configures a Manager or Memory tier.
type Options struct {
	// Prefix namespaces every key as "prefix:key". Empty means no prefix.
	Prefix string
	// DefaultTTL applies when a caller passes a zero ttl.
	DefaultTTL time.Duration
	// Clock is the time source. Defaults to the system clock.
	Clock clock.Clock
	// Name labels log lines and metrics. Defaults to the prefix, or "cache".
	Name string
}

func (o Options) withDefaults() Options {
	if o.DefaultTTL <= 0 {
		o.DefaultTTL = DefaultTTL
	}
	o.Clock = clock.OrSystem(o.Clock)
	if o.Name == "" {
		o.Name = o.Prefix
	}
	if o.Name == "" {
		o.Name = "cache"
	}
	return o
}

// ComposeKey joins a namespace prefix and a key.
func ComposeKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}
