// Package service contains the business logic that serves workflow and agent
// records through the cache.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/agentflow/internal/cache"
	"github.com/guttosm/agentflow/internal/codec"
	"github.com/rs/zerolog/log"
)

// ErrRepositoryNotConfigured is returned when no repository backs a service.
var ErrRepositoryNotConfigured = errors.New("repository not configured")

// RecordCache is the cache surface the services read and write through.
// *cache.Hierarchical satisfies it.
type RecordCache interface {
	cache.Tier
	cache.SWRGetter
	cache.PatternInvalidator
}

// Publisher announces changed keys to other instances. *cache.Invalidator
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string) error
	PublishPattern(ctx context.Context, pattern string) error
}

// ListKey is the cache key of an owner's record list.
func ListKey(owner string) string {
	return "list:" + owner
}

// listPattern matches every list key of an owner.
func listPattern(owner string) string {
	return ListKey(owner) + "*"
}

// records implements the caching policy shared by the record services:
// single records are read with stale-while-revalidate, owner lists with
// get-or-set, and every write replaces or evicts the record and drops the
// owner's lists on this and every other instance.
type records[T any] struct {
	cache     RecordCache
	publisher Publisher
	codec     codec.Codec[T]
	listCodec codec.Codec[[]T]
	ttl       time.Duration
	listTTL   time.Duration
}

func newRecords[T any](c RecordCache, p Publisher, ttl, listTTL time.Duration) records[T] {
	return records[T]{
		cache:     c,
		publisher: p,
		codec:     codec.JSON[T](),
		listCodec: codec.JSON[[]T](),
		ttl:       ttl,
		listTTL:   listTTL,
	}
}

func (r records[T]) get(ctx context.Context, id string, fetch func(context.Context) (T, error)) (T, error) {
	return cache.GetWithSWRAs(ctx, r.cache, id, r.codec, fetch, r.ttl)
}

func (r records[T]) list(ctx context.Context, owner string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	return cache.GetOrSetAs(ctx, r.cache, ListKey(owner), r.listCodec, fetch, r.listTTL)
}

// stored writes v through to the cache after it was persisted.
func (r records[T]) stored(ctx context.Context, id, owner string, v T) {
	cache.SetAs(ctx, r.cache, id, v, r.codec, r.ttl)
	r.invalidate(ctx, id, owner)
}

// removed evicts a deleted record.
func (r records[T]) removed(ctx context.Context, id, owner string) {
	r.cache.Delete(ctx, id)
	r.invalidate(ctx, id, owner)
}

func (r records[T]) invalidate(ctx context.Context, id, owner string) {
	r.cache.InvalidatePattern(ctx, listPattern(owner))
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, id); err != nil {
		log.Warn().Err(err).Str("key", id).Msg("Record invalidation not published")
	}
	if err := r.publisher.PublishPattern(ctx, listPattern(owner)); err != nil {
		log.Warn().Err(err).Str("owner", owner).Msg("List invalidation not published")
	}
}
