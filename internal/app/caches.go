package app

import (
	"context"
	"errors"

	"github.com/guttosm/agentflow/config"
	"github.com/guttosm/agentflow/internal/cache"
	"github.com/guttosm/agentflow/internal/circuitbreaker"
	"github.com/guttosm/agentflow/internal/middleware"
	"github.com/guttosm/agentflow/internal/service"
)

// Cache namespaces.
const (
	NamespaceWorkflows   = "workflows"
	NamespaceAgents      = "agents"
	NamespaceIdempotency = "idempotency"
)

// NamespaceCache is the tier stack serving one record namespace: a
// process-local memory tier in front of the SWR tier on the shared store.
type NamespaceCache struct {
	Name     string
	Memory   *cache.Memory
	Enhanced *cache.Enhanced
	Tiered   *cache.Hierarchical
	// Invalidator is nil unless the shared store is Redis.
	Invalidator *cache.Invalidator
}

// Publisher returns the cross-instance publisher, or nil.
func (n *NamespaceCache) Publisher() service.Publisher {
	if n.Invalidator == nil {
		return nil
	}
	return n.Invalidator
}

// Breaker returns the breaker guarding fetches into the namespace.
func (n *NamespaceCache) Breaker() *circuitbreaker.CircuitBreaker {
	return n.Enhanced.Breaker()
}

// Close stops the invalidation subscription and waits for background
// revalidations.
func (n *NamespaceCache) Close(ctx context.Context) error {
	var errs []error
	if n.Invalidator != nil {
		errs = append(errs, n.Invalidator.Close())
	}
	errs = append(errs, n.Enhanced.Close(ctx))
	return errors.Join(errs...)
}

// newNamespaceCache builds the tier stack for ns on the shared store. With
// a Redis store the invalidation subscription starts under ctx.
func newNamespaceCache(ctx context.Context, cfg config.Config, stores *StoreComponents, ns string) (*NamespaceCache, error) {
	prefix := cfg.Cache.Prefix + ":" + ns
	breaker, err := newBreaker(cfg.CircuitBreaker, ns+"-fetch", notFoundIsSuccess)
	if err != nil {
		return nil, err
	}

	manager := cache.NewManager(stores.Store, cache.Options{
		Prefix:     prefix,
		DefaultTTL: cfg.Cache.DefaultTTL,
		Name:       ns,
	})
	enhanced := cache.NewEnhanced(manager, breaker,
		cache.SWROptions{
			StaleAfter: cfg.Cache.StaleAfter,
			StaleTTL:   cfg.Cache.StaleTTL,
		})
	memory := cache.NewMemory(cache.Options{
		DefaultTTL: cfg.Cache.MemoryTTL,
		Name:       ns + "-memory",
	})

	nc := &NamespaceCache{
		Name:     ns,
		Memory:   memory,
		Enhanced: enhanced,
		Tiered:   cache.NewHierarchical(memory, enhanced),
	}

	if stores.Redis != nil {
		nc.Invalidator = cache.NewInvalidator(memory, stores.Redis.Client(), prefix)
		go nc.Invalidator.Start(ctx)
	}
	return nc, nil
}

// newIdempotencyStore keeps replayable responses on the shared store.
func newIdempotencyStore(cfg config.Config, stores *StoreComponents) *cache.Manager {
	return cache.NewManager(stores.Store, cache.Options{
		Prefix:     cfg.Cache.Prefix + ":" + NamespaceIdempotency,
		DefaultTTL: middleware.IdempotencyKeyTTL,
		Name:       NamespaceIdempotency,
	})
}
