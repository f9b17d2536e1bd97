// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/agentflow/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockWorkflowService is a testify mock of service.WorkflowService.
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) Get(ctx context.Context, id string) (*model.Workflow, error) {
	args := m.Called(ctx, id)
	if wf := args.Get(0); wf != nil {
		return wf.(*model.Workflow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWorkflowService) ListByOwner(ctx context.Context, owner string) ([]model.Workflow, error) {
	args := m.Called(ctx, owner)
	if list := args.Get(0); list != nil {
		return list.([]model.Workflow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWorkflowService) Create(ctx context.Context, wf *model.Workflow) error {
	args := m.Called(ctx, wf)
	return args.Error(0)
}

// Update applies mutate to the workflow configured as the first return
// value before returning it.
func (m *MockWorkflowService) Update(ctx context.Context, id string, mutate func(*model.Workflow)) (*model.Workflow, error) {
	args := m.Called(ctx, id, mutate)
	wf, _ := args.Get(0).(*model.Workflow)
	if wf != nil {
		mutate(wf)
	}
	return wf, args.Error(1)
}

func (m *MockWorkflowService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
