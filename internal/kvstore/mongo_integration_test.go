//go:build integration

package kvstore

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/guttosm/agentflow/internal/clock"
	"github.com/guttosm/agentflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupMongoStore(t *testing.T, c clock.Clock) *MongoStore {
	t.Helper()
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(testutil.SharedMongoURI()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	coll := client.Database(testutil.SanitizeDBName(t.Name())).Collection("cache_entries")
	s := NewMongoStore(coll, c)
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func TestMongoStore_Integration(t *testing.T) {
	ctx := context.Background()
	c := clock.NewManual(time.Now())
	s := setupMongoStore(t, c)

	require.NoError(t, s.Ping(ctx))

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "agents:1", []byte("a1")))
	require.NoError(t, s.SetWithExpiry(ctx, "agents:2", []byte("a2"), time.Minute))
	require.NoError(t, s.Set(ctx, "workflows:1", []byte("w1")))

	v, err := s.Get(ctx, "agents:2")
	require.NoError(t, err)
	assert.Equal(t, []byte("a2"), v)

	keys, err := s.KeysMatching(ctx, "agents:*")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"agents:1", "agents:2"}, keys)

	c.Advance(2 * time.Minute)
	_, err = s.Get(ctx, "agents:2")
	assert.ErrorIs(t, err, ErrNotFound, "expired documents are hidden before the TTL monitor runs")

	require.NoError(t, s.Delete(ctx, "agents:1", "workflows:1"))
	keys, err = s.KeysMatching(ctx, "*")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMongoStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := setupMongoStore(t, nil)

	require.NoError(t, s.SetWithExpiry(ctx, "k", []byte("old"), time.Minute))
	require.NoError(t, s.Set(ctx, "k", []byte("new")))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}
