package service

import (
	"context"
	"time"

	"github.com/guttosm/agentflow/internal/domain/model"
	"github.com/guttosm/agentflow/internal/repository"
)

// WorkflowService provides cached workflow operations.
type WorkflowService interface {
	Get(ctx context.Context, id string) (*model.Workflow, error)
	ListByOwner(ctx context.Context, owner string) ([]model.Workflow, error)
	Create(ctx context.Context, wf *model.Workflow) error
	Update(ctx context.Context, id string, mutate func(*model.Workflow)) (*model.Workflow, error)
	Delete(ctx context.Context, id string) error
}

// WorkflowServiceImpl implements WorkflowService.
type WorkflowServiceImpl struct {
	repo    repository.WorkflowRepositoryInterface
	records records[model.Workflow]
}

// NewWorkflowService creates a workflow service reading through c. p may be
// nil on single-instance deployments. A zero ttl uses the cache defaults.
func NewWorkflowService(repo repository.WorkflowRepositoryInterface, c RecordCache, p Publisher, ttl time.Duration) *WorkflowServiceImpl {
	return &WorkflowServiceImpl{
		repo:    repo,
		records: newRecords[model.Workflow](c, p, ttl, ttl),
	}
}

func (s *WorkflowServiceImpl) Get(ctx context.Context, id string) (*model.Workflow, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	wf, err := s.records.get(ctx, id, func(ctx context.Context) (model.Workflow, error) {
		found, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return model.Workflow{}, err
		}
		return *found, nil
	})
	if err != nil {
		return nil, err
	}
	return &wf, nil
}

func (s *WorkflowServiceImpl) ListByOwner(ctx context.Context, owner string) ([]model.Workflow, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.records.list(ctx, owner, func(ctx context.Context) ([]model.Workflow, error) {
		return s.repo.ListByOwner(ctx, owner, repository.DefaultListLimit)
	})
}

func (s *WorkflowServiceImpl) Create(ctx context.Context, wf *model.Workflow) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	if err := s.repo.Create(ctx, wf); err != nil {
		return err
	}
	s.records.stored(ctx, wf.ID, wf.Owner, *wf)
	return nil
}

// Update loads the workflow from the repository, applies mutate and persists
// the result. The cache is bypassed for the read so a stale entry is never
// written back.
func (s *WorkflowServiceImpl) Update(ctx context.Context, id string, mutate func(*model.Workflow)) (*model.Workflow, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	wf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := wf.Owner
	mutate(wf)
	wf.ID, wf.Owner = id, owner
	if err := s.repo.Update(ctx, wf); err != nil {
		return nil, err
	}
	s.records.stored(ctx, wf.ID, wf.Owner, *wf)
	return wf, nil
}

func (s *WorkflowServiceImpl) Delete(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	wf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.records.removed(ctx, id, wf.Owner)
	return nil
}
