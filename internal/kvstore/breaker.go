package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/agentflow/internal/circuitbreaker"
)

// StoreWithCircuitBreaker wraps a Store with circuit breaker protection.
// A miss (ErrNotFound) is a successful round trip and does not count as a
// failure.
type StoreWithCircuitBreaker struct {
	store          Store
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// WithCircuitBreaker wraps store so every call runs through cb.
func WithCircuitBreaker(store Store, cb *circuitbreaker.CircuitBreaker) *StoreWithCircuitBreaker {
	return &StoreWithCircuitBreaker{store: store, circuitBreaker: cb}
}

func (s *StoreWithCircuitBreaker) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		result []byte
		miss   bool
	)
	err := s.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		v, err := s.store.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			miss = true
			return nil
		}
		result = v
		return err
	})
	if err != nil {
		return nil, err
	}
	if miss {
		return nil, ErrNotFound
	}
	return result, nil
}

func (s *StoreWithCircuitBreaker) Set(ctx context.Context, key string, value []byte) error {
	return s.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		return s.store.Set(ctx, key, value)
	})
}

func (s *StoreWithCircuitBreaker) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		return s.store.SetWithExpiry(ctx, key, value, ttl)
	})
}

func (s *StoreWithCircuitBreaker) Delete(ctx context.Context, keys ...string) error {
	return s.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		return s.store.Delete(ctx, keys...)
	})
}

func (s *StoreWithCircuitBreaker) KeysMatching(ctx context.Context, pattern string) ([]string, error) {
	return circuitbreaker.Call(ctx, s.circuitBreaker, func(ctx context.Context) ([]string, error) {
		return s.store.KeysMatching(ctx, pattern)
	}, nil)
}

// Ping bypasses the breaker so readiness checks observe the backend directly.
func (s *StoreWithCircuitBreaker) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *StoreWithCircuitBreaker) Close() error {
	return s.store.Close()
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (s *StoreWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return s.circuitBreaker
}
