// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/agentflow/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockAgentService is a testify mock of service.AgentService.
type MockAgentService struct {
	mock.Mock
}

func (m *MockAgentService) Get(ctx context.Context, id string) (*model.Agent, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*model.Agent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAgentService) ListByOwner(ctx context.Context, owner string) ([]model.Agent, error) {
	args := m.Called(ctx, owner)
	if list := args.Get(0); list != nil {
		return list.([]model.Agent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAgentService) Create(ctx context.Context, a *model.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

// Update applies mutate to the workflow configured as the first return
// value before returning it.
func (m *MockAgentService) Update(ctx context.Context, id string, mutate func(*model.Agent)) (*model.Agent, error) {
	args := m.Called(ctx, id, mutate)
	a, _ := args.Get(0).(*model.Agent)
	if a != nil {
		mutate(a)
	}
	return a, args.Error(1)
}

func (m *MockAgentService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
