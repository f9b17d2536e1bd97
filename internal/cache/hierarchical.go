package cache

import (
	"context"
	"time"
)

// Hierarchical composes tiers ordered fastest first. Reads fall through the
// tiers and promote hits into the faster tiers; writes and deletes go to
// every tier in order. No cross-tier atomicity is provided.
type Hierarchical struct {
	tiers []Tier
}

// NewHierarchical creates a cache over tiers. The slice is copied and the
// order is fixed for the lifetime of the cache.
func NewHierarchical(tiers ...Tier) *Hierarchical {
	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	return &Hierarchical{tiers: cp}
}

// Tiers returns a copy of the tier list.
func (h *Hierarchical) Tiers() []Tier {
	cp := make([]Tier, len(h.tiers))
	copy(cp, h.tiers)
	return cp
}

// Get probes tiers in order. A hit at tier i is written back to tiers
// 0..i-1 with their default TTL before returning.
func (h *Hierarchical) Get(ctx context.Context, key string) ([]byte, bool) {
	return h.probe(ctx, key, len(h.tiers))
}

// probe looks key up in the first limit tiers and back-fills faster tiers on
// a hit.
func (h *Hierarchical) probe(ctx context.Context, key string, limit int) ([]byte, bool) {
	for i := 0; i < limit; i++ {
		value, ok := h.tiers[i].Get(ctx, key)
		if !ok {
			continue
		}
		h.backfill(ctx, key, value, i)
		return value, true
	}
	return nil, false
}

func (h *Hierarchical) backfill(ctx context.Context, key string, value []byte, upTo int) {
	for j := 0; j < upTo; j++ {
		h.tiers[j].Set(ctx, key, value, 0)
	}
}

// Set writes to every tier. It reports true only if every tier succeeded.
func (h *Hierarchical) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	ok := true
	for _, t := range h.tiers {
		if !t.Set(ctx, key, value, ttl) {
			ok = false
		}
	}
	return ok
}

// Delete removes key from every tier. It reports true only if every tier
// succeeded.
func (h *Hierarchical) Delete(ctx context.Context, key string) bool {
	ok := true
	for _, t := range h.tiers {
		if !t.Delete(ctx, key) {
			ok = false
		}
	}
	return ok
}

// InvalidatePattern forwards to every tier that supports pattern deletes.
func (h *Hierarchical) InvalidatePattern(ctx context.Context, pattern string) bool {
	ok := true
	for _, t := range h.tiers {
		if pi, supported := t.(PatternInvalidator); supported {
			if !pi.InvalidatePattern(ctx, pattern) {
				ok = false
			}
		}
	}
	return ok
}

// GetOrSet returns the value from the first tier that has it, or calls fetch
// and writes the result to every tier. When an SWR tier is present the tiers
// in front of it are probed and the SWR tier decides freshness, so a value
// is never served past its fresh window from the shared store.
func (h *Hierarchical) GetOrSet(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) ([]byte, error) {
	if idx, swr := h.swrTier(); swr != nil {
		if gs, ok := swr.(getOrSetter); ok {
			if value, ok := h.probe(ctx, key, idx); ok {
				return value, nil
			}
			value, err := gs.GetOrSet(ctx, key, fetch, ttl)
			if err != nil {
				return nil, err
			}
			h.backfill(ctx, key, value, idx)
			return value, nil
		}
	}

	if value, ok := h.Get(ctx, key); ok {
		return value, nil
	}
	value, err := timedFetch(ctx, h.name(), "cold", fetch)
	if err != nil {
		return nil, err
	}
	h.Set(ctx, key, value, ttl)
	return value, nil
}

type getOrSetter interface {
	GetOrSet(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) ([]byte, error)
}

// swrTier returns the first SWR-capable tier and its index.
func (h *Hierarchical) swrTier() (int, SWRTier) {
	for i, t := range h.tiers {
		if s, ok := t.(SWRTier); ok {
			return i, s
		}
	}
	return -1, nil
}

// name labels fetch metrics with the slowest named tier.
func (h *Hierarchical) name() string {
	for i := len(h.tiers) - 1; i >= 0; i-- {
		if n, ok := h.tiers[i].(interface{ Name() string }); ok {
			return n.Name()
		}
	}
	return "hierarchical"
}

// GetWithSWR serves key with stale-while-revalidate semantics. The plain
// tiers in front of the first SWRTier are probed first; otherwise the SWR
// tier answers and its result is written back to the front tiers. Without
// an SWR tier this behaves like GetOrSet.
func (h *Hierarchical) GetWithSWR(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) ([]byte, error) {
	idx, swr := h.swrTier()
	if swr == nil {
		return h.GetOrSet(ctx, key, fetch, ttl)
	}

	if value, ok := h.probe(ctx, key, idx); ok {
		return value, nil
	}

	value, err := swr.GetWithSWR(ctx, key, fetch, ttl)
	if err != nil {
		return nil, err
	}
	h.backfill(ctx, key, value, idx)
	return value, nil
}
