package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/guttosm/agentflow/internal/circuitbreaker"
	"github.com/guttosm/agentflow/internal/clock"
	"github.com/guttosm/agentflow/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// SWROptions configures stale-while-revalidate behaviour.
type SWROptions struct {
	// StaleAfter is how long a value is fresh when the caller passes no ttl.
	// Defaults to the manager's default TTL and may not exceed it.
	StaleAfter time.Duration
	// StaleTTL is how long a value stays servable once stale.
	// Defaults to the manager's default TTL.
	StaleTTL time.Duration
	// Clock is the time source for staleness. Defaults to the system clock.
	Clock clock.Clock
}

// envelope wraps a cached value with the time it was written, in epoch
// milliseconds.
type envelope struct {
	Value     []byte `json:"value"`
	Timestamp int64  `json:"timestamp"`
}

// Enhanced layers stale-while-revalidate over a Manager. Fresh values are
// served directly, stale values are served immediately while one background
// refresh per key runs through the circuit breaker, and cold misses fetch
// synchronously with concurrent callers for the same key sharing one fetch.
type Enhanced struct {
	manager *Manager
	breaker *circuitbreaker.CircuitBreaker
	opts    SWROptions
	clock   clock.Clock

	mu           sync.Mutex
	revalidating map[string]struct{}
	closed       bool
	wg           sync.WaitGroup

	group singleflight.Group
}

// NewEnhanced creates an SWR cache over manager. A nil breaker gets a
// default one named after the manager.
func NewEnhanced(manager *Manager, breaker *circuitbreaker.CircuitBreaker, opts SWROptions) *Enhanced {
	defaultTTL := manager.DefaultTTL()
	if opts.StaleAfter > defaultTTL {
		log.Warn().
			Str("cache", manager.Name()).
			Dur("stale_after", opts.StaleAfter).
			Dur("default_ttl", defaultTTL).
			Msg("Stale threshold exceeds default TTL, clamping")
		opts.StaleAfter = defaultTTL
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = defaultTTL
	}
	if opts.StaleTTL <= 0 {
		opts.StaleTTL = defaultTTL
	}
	opts.Clock = clock.OrSystem(opts.Clock)

	if breaker == nil {
		breaker = circuitbreaker.New(circuitbreaker.Config{
			Name:  manager.Name() + "-fetch",
			Clock: opts.Clock,
		})
	}

	return &Enhanced{
		manager:      manager,
		breaker:      breaker,
		opts:         opts,
		clock:        opts.Clock,
		revalidating: make(map[string]struct{}),
	}
}

// Name returns the label used for logs and metrics.
func (e *Enhanced) Name() string { return e.manager.Name() }

// Breaker returns the circuit breaker guarding fetches.
func (e *Enhanced) Breaker() *circuitbreaker.CircuitBreaker { return e.breaker }

// Manager returns the underlying manager.
func (e *Enhanced) Manager() *Manager { return e.manager }

func (e *Enhanced) freshFor(ttl time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}
	return e.opts.StaleAfter
}

// GetWithSWR returns the value for key. Fresh values return directly. Stale
// values return immediately and trigger a background refresh unless one is
// already running for key. On a miss fetch runs synchronously through the
// circuit breaker and its error, including circuitbreaker.ErrCircuitOpen, is
// returned. ttl is how long the value counts as fresh; zero uses StaleAfter.
func (e *Enhanced) GetWithSWR(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) ([]byte, error) {
	freshFor := e.freshFor(ttl)
	name := e.manager.Name()

	if env, ok := e.read(ctx, key); ok {
		if e.age(env) < freshFor {
			metrics.RecordCacheOperation(name, "swr", "fresh")
			return env.Value, nil
		}
		metrics.RecordCacheOperation(name, "swr", "stale")
		e.revalidate(ctx, key, fetch, freshFor)
		return env.Value, nil
	}

	metrics.RecordCacheOperation(name, "swr", "miss")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The shared fetch outlives any single caller; each caller waits on its
	// own context.
	shared := context.WithoutCancel(ctx)
	ch := e.group.DoChan(key, func() (any, error) {
		started := e.clock.Now().UnixMilli()
		value, err := e.fetch(shared, fetch, "cold")
		if err != nil {
			return nil, err
		}
		e.writeSince(shared, key, value, freshFor, started)
		return value, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]byte)), nil
	}
}

// Revalidating reports whether a background refresh for key is in flight.
func (e *Enhanced) Revalidating(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.revalidating[key]
	return ok
}

// revalidate starts a background refresh of key unless one is running or
// the cache is closed.
func (e *Enhanced) revalidate(ctx context.Context, key string, fetch FetchFunc, freshFor time.Duration) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	if _, running := e.revalidating[key]; running {
		e.mu.Unlock()
		return
	}
	e.revalidating[key] = struct{}{}
	e.wg.Add(1)
	e.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	go func() {
		defer e.wg.Done()
		defer e.done(key)

		started := e.clock.Now().UnixMilli()
		value, err := e.fetch(bg, fetch, "background")
		if err != nil {
			log.Warn().
				Err(err).
				Str("cache", e.manager.Name()).
				Str("key", key).
				Msg("Background revalidation failed, serving stale value")
			metrics.RecordRevalidation(e.manager.Name(), "failure")
			return
		}
		if !e.writeSince(bg, key, value, freshFor, started) {
			metrics.RecordRevalidation(e.manager.Name(), "superseded")
			return
		}
		metrics.RecordRevalidation(e.manager.Name(), "success")
	}()
}

func (e *Enhanced) done(key string) {
	e.mu.Lock()
	delete(e.revalidating, key)
	e.mu.Unlock()
}

func (e *Enhanced) fetch(ctx context.Context, fetch FetchFunc, mode string) ([]byte, error) {
	return circuitbreaker.Call(ctx, e.breaker, func(ctx context.Context) ([]byte, error) {
		return timedFetch(ctx, e.manager.Name(), mode, fetch)
	}, nil)
}

func (e *Enhanced) age(env envelope) time.Duration {
	return e.clock.Now().Sub(time.UnixMilli(env.Timestamp))
}

// read loads and decodes the envelope for key. Undecodable entries are
// treated as misses.
func (e *Enhanced) read(ctx context.Context, key string) (envelope, bool) {
	raw, ok := e.manager.Get(ctx, key)
	if !ok {
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Warn().Err(err).Str("cache", e.manager.Name()).Str("key", key).Msg("Discarding undecodable cache entry")
		return envelope{}, false
	}
	return env, true
}

// write stores value stamped with the current time. The entry outlives its
// fresh window by StaleTTL so it can be served stale. A stored entry with a
// newer timestamp is left in place.
func (e *Enhanced) write(ctx context.Context, key string, value []byte, freshFor time.Duration) bool {
	now := e.clock.Now().UnixMilli()
	if current, ok := e.read(ctx, key); ok && current.Timestamp > now {
		return true
	}
	return e.store(ctx, key, value, freshFor, now)
}

// writeSince stores a fetched value unless the entry was written at or after
// started, the moment the fetch began. It reports whether it wrote.
func (e *Enhanced) writeSince(ctx context.Context, key string, value []byte, freshFor time.Duration, started int64) bool {
	if current, ok := e.read(ctx, key); ok && current.Timestamp >= started {
		return false
	}
	return e.store(ctx, key, value, freshFor, e.clock.Now().UnixMilli())
}

func (e *Enhanced) store(ctx context.Context, key string, value []byte, freshFor time.Duration, now int64) bool {
	raw, err := json.Marshal(envelope{Value: value, Timestamp: now})
	if err != nil {
		log.Error().Err(err).Str("cache", e.manager.Name()).Str("key", key).Msg("Failed to encode cache entry")
		return false
	}
	return e.manager.Set(ctx, key, raw, freshFor+e.opts.StaleTTL)
}

// Get returns the value stored under key whether fresh or stale.
func (e *Enhanced) Get(ctx context.Context, key string) ([]byte, bool) {
	env, ok := e.read(ctx, key)
	if !ok {
		return nil, false
	}
	return env.Value, true
}

// Set stores value fresh for ttl (StaleAfter when zero).
func (e *Enhanced) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	return e.write(ctx, key, value, e.freshFor(ttl))
}

// Delete removes key.
func (e *Enhanced) Delete(ctx context.Context, key string) bool {
	return e.manager.Delete(ctx, key)
}

// GetOrSet returns the value for key while it is fresh, otherwise fetches it
// synchronously through the circuit breaker and stores it. Stale values are
// not served. ttl is the fresh window; zero uses StaleAfter.
func (e *Enhanced) GetOrSet(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) ([]byte, error) {
	freshFor := e.freshFor(ttl)
	if env, ok := e.read(ctx, key); ok && e.age(env) < freshFor {
		return env.Value, nil
	}
	started := e.clock.Now().UnixMilli()
	value, err := e.fetch(ctx, fetch, "cold")
	if err != nil {
		return nil, err
	}
	e.writeSince(ctx, key, value, freshFor, started)
	return value, nil
}

// InvalidatePattern deletes every key in the namespace matching the glob.
func (e *Enhanced) InvalidatePattern(ctx context.Context, pattern string) bool {
	return e.manager.InvalidatePattern(ctx, pattern)
}

// Close stops new background refreshes and waits for running ones, or for
// ctx to end.
func (e *Enhanced) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
