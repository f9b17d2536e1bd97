package repository

import (
	"context"
	"errors"

	"github.com/guttosm/agentflow/internal/circuitbreaker"
	"github.com/guttosm/agentflow/internal/domain/model"
)

// guarded runs fn through cb. ErrNotFound is a successful round trip to the
// database, so it is returned to the caller without counting as a failure.
func guarded[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func(context.Context) (T, error)) (T, error) {
	notFound := false
	v, err := circuitbreaker.Call(ctx, cb, func(ctx context.Context) (T, error) {
		v, err := fn(ctx)
		if errors.Is(err, ErrNotFound) {
			notFound = true
			return v, nil
		}
		return v, err
	}, nil)
	if err == nil && notFound {
		return v, ErrNotFound
	}
	return v, err
}

func guardedExec(ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func(context.Context) error) error {
	_, err := guarded(ctx, cb, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// WorkflowRepositoryWithCircuitBreaker wraps a workflow repository with circuit breaker protection.
type WorkflowRepositoryWithCircuitBreaker struct {
	repo           WorkflowRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewWorkflowRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewWorkflowRepositoryWithCircuitBreaker(repo WorkflowRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *WorkflowRepositoryWithCircuitBreaker {
	return &WorkflowRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *WorkflowRepositoryWithCircuitBreaker) GetByID(ctx context.Context, id string) (*model.Workflow, error) {
	return guarded(ctx, r.circuitBreaker, func(ctx context.Context) (*model.Workflow, error) {
		return r.repo.GetByID(ctx, id)
	})
}

func (r *WorkflowRepositoryWithCircuitBreaker) ListByOwner(ctx context.Context, owner string, limit int) ([]model.Workflow, error) {
	return guarded(ctx, r.circuitBreaker, func(ctx context.Context) ([]model.Workflow, error) {
		return r.repo.ListByOwner(ctx, owner, limit)
	})
}

func (r *WorkflowRepositoryWithCircuitBreaker) Create(ctx context.Context, wf *model.Workflow) error {
	return guardedExec(ctx, r.circuitBreaker, func(ctx context.Context) error {
		return r.repo.Create(ctx, wf)
	})
}

func (r *WorkflowRepositoryWithCircuitBreaker) Update(ctx context.Context, wf *model.Workflow) error {
	return guardedExec(ctx, r.circuitBreaker, func(ctx context.Context) error {
		return r.repo.Update(ctx, wf)
	})
}

func (r *WorkflowRepositoryWithCircuitBreaker) Delete(ctx context.Context, id string) error {
	return guardedExec(ctx, r.circuitBreaker, func(ctx context.Context) error {
		return r.repo.Delete(ctx, id)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *WorkflowRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// AgentRepositoryWithCircuitBreaker wraps an agent repository with circuit breaker protection.
type AgentRepositoryWithCircuitBreaker struct {
	repo           AgentRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewAgentRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewAgentRepositoryWithCircuitBreaker(repo AgentRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *AgentRepositoryWithCircuitBreaker {
	return &AgentRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *AgentRepositoryWithCircuitBreaker) GetByID(ctx context.Context, id string) (*model.Agent, error) {
	return guarded(ctx, r.circuitBreaker, func(ctx context.Context) (*model.Agent, error) {
		return r.repo.GetByID(ctx, id)
	})
}

func (r *AgentRepositoryWithCircuitBreaker) ListByOwner(ctx context.Context, owner string, limit int) ([]model.Agent, error) {
	return guarded(ctx, r.circuitBreaker, func(ctx context.Context) ([]model.Agent, error) {
		return r.repo.ListByOwner(ctx, owner, limit)
	})
}

func (r *AgentRepositoryWithCircuitBreaker) Create(ctx context.Context, a *model.Agent) error {
	return guardedExec(ctx, r.circuitBreaker, func(ctx context.Context) error {
		return r.repo.Create(ctx, a)
	})
}

func (r *AgentRepositoryWithCircuitBreaker) Update(ctx context.Context, a *model.Agent) error {
	return guardedExec(ctx, r.circuitBreaker, func(ctx context.Context) error {
		return r.repo.Update(ctx, a)
	})
}

func (r *AgentRepositoryWithCircuitBreaker) Delete(ctx context.Context, id string) error {
	return guardedExec(ctx, r.circuitBreaker, func(ctx context.Context) error {
		return r.repo.Delete(ctx, id)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *AgentRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
