//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	sharedMongo     *MongoDBContainer
	sharedMongoErr  error
	sharedMongoOnce sync.Once

	sharedRedis     *RedisContainer
	sharedRedisErr  error
	sharedRedisOnce sync.Once

	sharedMu sync.RWMutex
)

// GetSharedMongoDB returns a MongoDB container shared by all tests in a package.
// Call CleanupShared in TestMain to remove it.
func GetSharedMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	sharedMongoOnce.Do(func() {
		sharedMu.Lock()
		defer sharedMu.Unlock()
		sharedMongo, sharedMongoErr = SetupMongoDB(ctx)
	})

	sharedMu.RLock()
	defer sharedMu.RUnlock()
	return sharedMongo, sharedMongoErr
}

// GetSharedRedis returns a Redis container shared by all tests in a package.
func GetSharedRedis(ctx context.Context) (*RedisContainer, error) {
	sharedRedisOnce.Do(func() {
		sharedMu.Lock()
		defer sharedMu.Unlock()
		sharedRedis, sharedRedisErr = SetupRedis(ctx)
	})

	sharedMu.RLock()
	defer sharedMu.RUnlock()
	return sharedRedis, sharedRedisErr
}

// CleanupShared terminates whichever shared containers were started.
func CleanupShared(ctx context.Context) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedMongo != nil {
		if err := sharedMongo.Cleanup(ctx); err != nil {
			return err
		}
	}
	if sharedRedis != nil {
		return sharedRedis.Cleanup(ctx)
	}
	return nil
}

// SetupTestMain starts the requested shared containers, runs the tests and
// tears the containers down.
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMain(context.Background(), m, testutil.WithMongo, testutil.WithRedis))
//	}
func SetupTestMain(ctx context.Context, m *testing.M, deps ...Dependency) int {
	for _, dep := range deps {
		if err := dep(ctx); err != nil {
			panic(err)
		}
	}

	code := m.Run()

	if err := CleanupShared(ctx); err != nil {
		_, _ = os.Stderr.WriteString("Warning: failed to cleanup shared containers: " + err.Error() + "\n")
	}
	return code
}

// Dependency starts one shared container.
type Dependency func(ctx context.Context) error

// WithMongo starts the shared MongoDB container.
func WithMongo(ctx context.Context) error {
	_, err := GetSharedMongoDB(ctx)
	return err
}

// WithRedis starts the shared Redis container.
func WithRedis(ctx context.Context) error {
	_, err := GetSharedRedis(ctx)
	return err
}

// SharedMongoURI returns the URI of the shared MongoDB container.
// Panics if the container is not initialized.
func SharedMongoURI() string {
	sharedMu.RLock()
	defer sharedMu.RUnlock()
	if sharedMongo == nil {
		panic("shared MongoDB container not initialized - call GetSharedMongoDB first")
	}
	return sharedMongo.URI
}

// SharedRedisAddr returns the address of the shared Redis container.
// Panics if the container is not initialized.
func SharedRedisAddr() string {
	sharedMu.RLock()
	defer sharedMu.RUnlock()
	if sharedRedis == nil {
		panic("shared Redis container not initialized - call GetSharedRedis first")
	}
	return sharedRedis.Addr
}

// SanitizeDBName turns a test name into a unique, valid MongoDB database name.
func SanitizeDBName(testName string) string {
	sanitized := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(testName)
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return fmt.Sprintf("%s_%d", sanitized, time.Now().UnixNano()%1000000)
}
