package repository

import (
	"context"
	"errors"

	"github.com/guttosm/agentflow/internal/domain/model"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("repository: not found")

// WorkflowRepositoryInterface defines the workflow persistence operations.
type WorkflowRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*model.Workflow, error)
	ListByOwner(ctx context.Context, owner string, limit int) ([]model.Workflow, error)
	Create(ctx context.Context, wf *model.Workflow) error
	Update(ctx context.Context, wf *model.Workflow) error
	Delete(ctx context.Context, id string) error
}

// AgentRepositoryInterface defines the agent persistence operations.
type AgentRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*model.Agent, error)
	ListByOwner(ctx context.Context, owner string, limit int) ([]model.Agent, error)
	Create(ctx context.Context, a *model.Agent) error
	Update(ctx context.Context, a *model.Agent) error
	Delete(ctx context.Context, id string) error
}
