//go:build !integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/agentflow/internal/circuitbreaker"
	"github.com/guttosm/agentflow/internal/clock"
	"github.com/guttosm/agentflow/internal/domain/model"
	"github.com/guttosm/agentflow/internal/mocks"
	"github.com/guttosm/agentflow/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBreaker(t *testing.T) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		Name:             t.Name(),
		FailureThreshold: 2,
		Timeout:          time.Minute,
		Clock:            clock.NewManual(time.Unix(0, 0)),
	})
}

func TestWorkflowRepositoryWithCircuitBreaker_NotFoundIsNotFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockWorkflowRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	cb := newBreaker(t)
	wrapped := repository.NewWorkflowRepositoryWithCircuitBreaker(repo, cb)

	for i := 0; i < 4; i++ {
		wf, err := wrapped.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, wf)
	}
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}

func TestWorkflowRepositoryWithCircuitBreaker_OpensOnErrors(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("server selection timeout")
	repo := new(mocks.MockWorkflowRepository)
	repo.On("ListByOwner", mock.Anything, "alice", 10).Return(nil, dbErr)

	cb := newBreaker(t)
	wrapped := repository.NewWorkflowRepositoryWithCircuitBreaker(repo, cb)

	for i := 0; i < 2; i++ {
		_, err := wrapped.ListByOwner(ctx, "alice", 10)
		assert.ErrorIs(t, err, dbErr)
	}
	_, err := wrapped.ListByOwner(ctx, "alice", 10)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	repo.AssertNumberOfCalls(t, "ListByOwner", 2)
	assert.Same(t, cb, wrapped.GetCircuitBreaker())
}

func TestWorkflowRepositoryWithCircuitBreaker_Delegates(t *testing.T) {
	ctx := context.Background()
	wf := &model.Workflow{ID: "42", Name: "sync", Owner: "alice"}
	repo := new(mocks.MockWorkflowRepository)
	repo.On("GetByID", mock.Anything, "42").Return(wf, nil)
	repo.On("Create", mock.Anything, wf).Return(nil)
	repo.On("Update", mock.Anything, wf).Return(nil)
	repo.On("Delete", mock.Anything, "42").Return(nil)

	wrapped := repository.NewWorkflowRepositoryWithCircuitBreaker(repo, newBreaker(t))

	got, err := wrapped.GetByID(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, wf, got)
	assert.NoError(t, wrapped.Create(ctx, wf))
	assert.NoError(t, wrapped.Update(ctx, wf))
	assert.NoError(t, wrapped.Delete(ctx, "42"))
	repo.AssertExpectations(t)
}

func TestAgentRepositoryWithCircuitBreaker(t *testing.T) {
	ctx := context.Background()
	a := &model.Agent{ID: "7", Name: "triage", Owner: "bob"}
	repo := new(mocks.MockAgentRepository)
	repo.On("GetByID", mock.Anything, "7").Return(a, nil)
	repo.On("ListByOwner", mock.Anything, "bob", 0).Return([]model.Agent{*a}, nil)
	repo.On("Create", mock.Anything, a).Return(nil)
	repo.On("Update", mock.Anything, a).Return(nil)
	repo.On("Delete", mock.Anything, "8").Return(repository.ErrNotFound)

	cb := newBreaker(t)
	wrapped := repository.NewAgentRepositoryWithCircuitBreaker(repo, cb)

	got, err := wrapped.GetByID(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, a, got)

	list, err := wrapped.ListByOwner(ctx, "bob", 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.NoError(t, wrapped.Create(ctx, a))
	assert.NoError(t, wrapped.Update(ctx, a))
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, wrapped.Delete(ctx, "8"), repository.ErrNotFound)
	}
	assert.False(t, cb.IsOpen())
	assert.Same(t, cb, wrapped.GetCircuitBreaker())
}
