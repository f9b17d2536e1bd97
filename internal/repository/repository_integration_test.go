//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/agentflow/internal/circuitbreaker"
	"github.com/guttosm/agentflow/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewWorkflowRepository(db)

	wf := &model.Workflow{Name: "nightly", Owner: "alice", Status: model.WorkflowStatusDraft}
	require.NoError(t, repo.Create(ctx, wf))
	assert.NotEmpty(t, wf.ID)
	assert.False(t, wf.CreatedAt.IsZero())

	time.Sleep(5 * time.Millisecond)
	second := &model.Workflow{Name: "hourly", Owner: "alice", Status: model.WorkflowStatusActive}
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, &model.Workflow{Name: "other", Owner: "bob"}))

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, wf.ID)
		require.NoError(t, err)
		assert.Equal(t, "nightly", got.Name)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list by owner newest first", func(t *testing.T) {
		list, err := repo.ListByOwner(ctx, "alice", 0)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "hourly", list[0].Name)

		list, err = repo.ListByOwner(ctx, "nobody", 0)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("update", func(t *testing.T) {
		wf.Status = model.WorkflowStatusActive
		require.NoError(t, repo.Update(ctx, wf))
		got, err := repo.GetByID(ctx, wf.ID)
		require.NoError(t, err)
		assert.Equal(t, model.WorkflowStatusActive, got.Status)

		missing := &model.Workflow{ID: "missing"}
		assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, wf.ID))
		assert.ErrorIs(t, repo.Delete(ctx, wf.ID), ErrNotFound)
	})
}

func TestAgentRepositoryWithCircuitBreaker_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	repo := NewAgentRepositoryWithCircuitBreaker(NewAgentRepository(db), cb)

	a := &model.Agent{Name: "triage", Type: "classifier", Owner: "bob", Config: map[string]any{"temperature": 0.2}}
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "classifier", got.Type)
	assert.Equal(t, 0.2, got.Config["temperature"])

	got.Name = "triage-v2"
	require.NoError(t, repo.Update(ctx, got))

	list, err := repo.ListByOwner(ctx, "bob", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "triage-v2", list[0].Name)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}
