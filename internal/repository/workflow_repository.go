package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/agentflow/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultListLimit bounds owner listings when the caller passes no limit.
const DefaultListLimit = 100

// WorkflowRepository provides workflow persistence.
type WorkflowRepository struct {
	collection *mongo.Collection
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(db *MongoDB) *WorkflowRepository {
	return &WorkflowRepository{collection: db.Workflows}
}

// GetByID returns the workflow with id, or ErrNotFound.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*model.Workflow, error) {
	var wf model.Workflow
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&wf)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wf, nil
}

// ListByOwner returns the owner's workflows, newest first.
func (r *WorkflowRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]model.Workflow, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner}, listOptions(limit))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	workflows := make([]model.Workflow, 0)
	if err := cursor.All(ctx, &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

// Create assigns an ID and timestamps to wf and inserts it.
func (r *WorkflowRepository) Create(ctx context.Context, wf *model.Workflow) error {
	now := time.Now().UTC()
	wf.ID = uuid.NewString()
	wf.CreatedAt = now
	wf.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, wf)
	return err
}

// Update replaces the stored workflow and refreshes UpdatedAt.
func (r *WorkflowRepository) Update(ctx context.Context, wf *model.Workflow) error {
	wf.UpdatedAt = time.Now().UTC()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": wf.ID}, wf)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the workflow with id.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func listOptions(limit int) *options.FindOptions {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
}
