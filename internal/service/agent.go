package service

import (
	"context"
	"time"

	"github.com/guttosm/agentflow/internal/domain/model"
	"github.com/guttosm/agentflow/internal/repository"
)

// AgentService provides cached agent operations.
type AgentService interface {
	Get(ctx context.Context, id string) (*model.Agent, error)
	ListByOwner(ctx context.Context, owner string) ([]model.Agent, error)
	Create(ctx context.Context, a *model.Agent) error
	Update(ctx context.Context, id string, mutate func(*model.Agent)) (*model.Agent, error)
	Delete(ctx context.Context, id string) error
}

// AgentServiceImpl implements AgentService.
type AgentServiceImpl struct {
	repo    repository.AgentRepositoryInterface
	records records[model.Agent]
}

// NewAgentService creates an agent service reading through c. p may be
// nil on single-instance deployments. A zero ttl uses the cache defaults.
func NewAgentService(repo repository.AgentRepositoryInterface, c RecordCache, p Publisher, ttl time.Duration) *AgentServiceImpl {
	return &AgentServiceImpl{
		repo:    repo,
		records: newRecords[model.Agent](c, p, ttl, ttl),
	}
}

func (s *AgentServiceImpl) Get(ctx context.Context, id string) (*model.Agent, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	a, err := s.records.get(ctx, id, func(ctx context.Context) (model.Agent, error) {
		found, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return model.Agent{}, err
		}
		return *found, nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AgentServiceImpl) ListByOwner(ctx context.Context, owner string) ([]model.Agent, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.records.list(ctx, owner, func(ctx context.Context) ([]model.Agent, error) {
		return s.repo.ListByOwner(ctx, owner, repository.DefaultListLimit)
	})
}

func (s *AgentServiceImpl) Create(ctx context.Context, a *model.Agent) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	s.records.stored(ctx, a.ID, a.Owner, *a)
	return nil
}

// Update loads the agent from the repository, applies mutate and persists
// the result. The cache is bypassed for the read so a stale entry is never
// written back.
func (s *AgentServiceImpl) Update(ctx context.Context, id string, mutate func(*model.Agent)) (*model.Agent, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := a.Owner
	mutate(a)
	a.ID, a.Owner = id, owner
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.records.stored(ctx, a.ID, a.Owner, *a)
	return a, nil
}

func (s *AgentServiceImpl) Delete(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.records.removed(ctx, id, a.Owner)
	return nil
}
