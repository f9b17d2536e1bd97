package app

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/agentflow/config"
	"github.com/guttosm/agentflow/internal/circuitbreaker"
	"github.com/guttosm/agentflow/internal/clock"
	"github.com/guttosm/agentflow/internal/kvstore"
	"github.com/rs/zerolog/log"
)

// StoreComponents holds the shared store behind the SWR tier.
type StoreComponents struct {
	// Store is the backend wrapped with Breaker.
	Store   kvstore.Store
	Breaker *circuitbreaker.CircuitBreaker
	// Redis is set when the backend is Redis and enables pub/sub
	// invalidation.
	Redis *kvstore.RedisStore
}

// InitializeStore creates the shared store selected by cfg.Cache.Backend.
// db is required for the mongo backend.
func InitializeStore(ctx context.Context, cfg config.Config, db *DatabaseComponents) (*StoreComponents, error) {
	cb, err := newBreaker(cfg.CircuitBreaker, "cache-store-"+cfg.Cache.Backend, nil)
	if err != nil {
		return nil, err
	}

	var (
		backend kvstore.Store
		redis   *kvstore.RedisStore
	)

	switch cfg.Cache.Backend {
	case config.BackendRedis:
		redis = kvstore.NewRedisStore(kvstore.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redis.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable at startup, cache will degrade until it recovers")
		}
		backend = redis
	case config.BackendMongo:
		if db == nil {
			return nil, config.ErrMongoBackendRequiresDatabase
		}
		mongoStore := kvstore.NewMongoStore(db.DB.CacheEntries, clock.System())
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("cache store indexes: %w", err)
		}
		backend = mongoStore
	case config.BackendMemory:
		backend = kvstore.NewMemoryStore(clock.System())
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	log.Info().Str("backend", cfg.Cache.Backend).Msg("Cache store initialized")

	return &StoreComponents{
		Store:   kvstore.WithCircuitBreaker(backend, cb),
		Breaker: cb,
		Redis:   redis,
	}, nil
}
