//go:build !integration

package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/guttosm/agentflow/internal/clock"
	"github.com/guttosm/agentflow/internal/kvstore"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// countingFetch returns a FetchFunc that yields value and counts its calls.
func countingFetch(value string, calls *int32) FetchFunc {
	return func(context.Context) ([]byte, error) {
		atomic.AddInt32(calls, 1)
		return []byte(value), nil
	}
}

// blockingFetch returns a FetchFunc that waits for release before yielding
// value.
func blockingFetch(value string, calls *int32, release <-chan struct{}) FetchFunc {
	return func(context.Context) ([]byte, error) {
		atomic.AddInt32(calls, 1)
		<-release
		return []byte(value), nil
	}
}

func newTestManager(prefix string, c clock.Clock) (*Manager, *kvstore.MemoryStore) {
	store := kvstore.NewMemoryStore(c)
	return NewManager(store, Options{Prefix: prefix, DefaultTTL: 300 * time.Second, Clock: c}), store
}
