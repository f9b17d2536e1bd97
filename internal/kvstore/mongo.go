package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/agentflow/internal/clock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoEntry is the document stored for each key.
type mongoEntry struct {
	Key       string     `bson:"_id"`
	Value     []byte     `bson:"value"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// MongoStore implements Store on a MongoDB collection. Expired documents are
// removed by a TTL index; because the TTL monitor runs periodically, reads
// also check expires_at so an expired key is never served.
type MongoStore struct {
	collection *mongo.Collection
	clock      clock.Clock
}

// NewMongoStore creates a store over collection. The collection's client is
// owned by the caller and is not closed by Close.
func NewMongoStore(collection *mongo.Collection, c clock.Clock) *MongoStore {
	return &MongoStore{collection: collection, clock: clock.OrSystem(c)}
}

// EnsureIndexes creates the TTL index on expires_at.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ttlIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0), // 0 means use expires_at field
	}
	if _, err := s.collection.Indexes().CreateOne(ctx, ttlIndex); err != nil {
		return fmt.Errorf("create cache ttl index: %w", err)
	}
	return nil
}

// liveFilter matches documents that have not expired at the current clock time.
func (s *MongoStore) liveFilter() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"expires_at": bson.M{"$exists": false}},
		bson.M{"expires_at": bson.M{"$gt": s.clock.Now()}},
	}}
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	filter := bson.M{"$and": bson.A{bson.M{"_id": key}, s.liveFilter()}}
	var entry mongoEntry
	err := s.collection.FindOne(ctx, filter).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (s *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	return s.put(ctx, key, value, nil)
}

func (s *MongoStore) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("kvstore: invalid ttl %s", ttl)
	}
	expiresAt := s.clock.Now().Add(ttl)
	return s.put(ctx, key, value, &expiresAt)
}

func (s *MongoStore) put(ctx context.Context, key string, value []byte, expiresAt *time.Time) error {
	entry := mongoEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: expiresAt,
		UpdatedAt: s.clock.Now(),
	}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}})
	return err
}

func (s *MongoStore) KeysMatching(ctx context.Context, pattern string) ([]string, error) {
	filter := bson.M{"$and": bson.A{
		bson.M{"_id": bson.M{"$regex": GlobToRegex(pattern)}},
		s.liveFilter(),
	}}
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var keys []string
	for cursor.Next(ctx) {
		var doc struct {
			Key string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		keys = append(keys, doc.Key)
	}
	return keys, cursor.Err()
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.collection.Database().Client().Ping(ctx, nil)
}

func (s *MongoStore) Close() error { return nil }
