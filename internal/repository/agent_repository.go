package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/agentflow/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AgentRepository provides agent persistence.
type AgentRepository struct {
	collection *mongo.Collection
}

// NewAgentRepository creates a new agent repository.
func NewAgentRepository(db *MongoDB) *AgentRepository {
	return &AgentRepository{collection: db.Agents}
}

// GetByID returns the agent with id, or ErrNotFound.
func (r *AgentRepository) GetByID(ctx context.Context, id string) (*model.Agent, error) {
	var a model.Agent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByOwner returns the owner's agents, newest first.
func (r *AgentRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]model.Agent, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner}, listOptions(limit))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	agents := make([]model.Agent, 0)
	if err := cursor.All(ctx, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// Create assigns an ID and timestamps to a and inserts it.
func (r *AgentRepository) Create(ctx context.Context, a *model.Agent) error {
	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, a)
	return err
}

// Update replaces the stored agent and refreshes UpdatedAt.
func (r *AgentRepository) Update(ctx context.Context, a *model.Agent) error {
	a.UpdatedAt = time.Now().UTC()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the agent with id.
func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
