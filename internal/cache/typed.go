package cache

import (
	"context"
	"time"

	"github.com/guttosm/agentflow/internal/codec"
	"github.com/rs/zerolog/log"
)

// SWRGetter is implemented by caches that serve stale-while-revalidate reads.
type SWRGetter interface {
	GetWithSWR(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) ([]byte, error)
}

// GetAs reads key from t and decodes it. A value that fails to decode is a
// miss.
func GetAs[T any](ctx context.Context, t Tier, key string, c codec.Codec[T]) (T, bool) {
	var zero T
	raw, ok := t.Get(ctx, key)
	if !ok {
		return zero, false
	}
	v, err := c.Unmarshal(raw)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cached value could not be decoded")
		return zero, false
	}
	return v, true
}

// SetAs encodes v and writes it to t.
func SetAs[T any](ctx context.Context, t Tier, key string, v T, c codec.Codec[T], ttl time.Duration) bool {
	raw, err := c.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Value could not be encoded for cache")
		return false
	}
	return t.Set(ctx, key, raw, ttl)
}

// GetOrSetAs returns the decoded value for key, or calls fetch and caches
// its result. Fetch errors are returned.
func GetOrSetAs[T any](
	ctx context.Context,
	t Tier,
	key string,
	c codec.Codec[T],
	fetch func(context.Context) (T, error),
	ttl time.Duration,
) (T, error) {
	if v, ok := GetAs(ctx, t, key, c); ok {
		return v, nil
	}
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	SetAs(ctx, t, key, v, c, ttl)
	return v, nil
}

// GetWithSWRAs is the typed form of GetWithSWR.
func GetWithSWRAs[T any](
	ctx context.Context,
	s SWRGetter,
	key string,
	c codec.Codec[T],
	fetch func(context.Context) (T, error),
	ttl time.Duration,
) (T, error) {
	raw, err := s.GetWithSWR(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return c.Marshal(v)
	}, ttl)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.Unmarshal(raw)
}
