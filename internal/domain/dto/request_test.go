//go:build !integration

package dto

import (
	"testing"

	"github.com/guttosm/agentflow/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func TestCreateWorkflowRequest_ToModel(t *testing.T) {
	tests := []struct {
		name           string
		request        CreateWorkflowRequest
		expectedStatus model.WorkflowStatus
	}{
		{
			name:           "defaults to draft",
			request:        CreateWorkflowRequest{Name: "sync", Owner: "alice"},
			expectedStatus: model.WorkflowStatusDraft,
		},
		{
			name:           "keeps explicit status",
			request:        CreateWorkflowRequest{Name: "sync", Owner: "alice", Status: "active"},
			expectedStatus: model.WorkflowStatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := tt.request.ToModel()
			assert.Equal(t, tt.expectedStatus, wf.Status)
			assert.Equal(t, "sync", wf.Name)
			assert.Equal(t, "alice", wf.Owner)
			assert.Empty(t, wf.ID)
		})
	}
}

func TestUpdateWorkflowRequest_Apply(t *testing.T) {
	name := "renamed"
	status := "paused"
	wf := model.Workflow{Name: "sync", Status: model.WorkflowStatusActive, WebhookURL: "https://a.example.com"}

	UpdateWorkflowRequest{Name: &name, Status: &status}.Apply(&wf)

	assert.Equal(t, "renamed", wf.Name)
	assert.Equal(t, model.WorkflowStatusPaused, wf.Status)
	assert.Equal(t, "https://a.example.com", wf.WebhookURL, "unset fields are unchanged")
}

func TestAgentRequests(t *testing.T) {
	a := CreateAgentRequest{Name: "triage", Type: "classifier", Owner: "bob", Config: map[string]any{"model": "small"}}.ToModel()
	assert.Equal(t, "classifier", a.Type)
	assert.Equal(t, "small", a.Config["model"])

	typ := "router"
	UpdateAgentRequest{Type: &typ}.Apply(&a)
	assert.Equal(t, "router", a.Type)
	assert.Equal(t, "triage", a.Name)
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "owner: is required", ErrMissingOwner.Error())
}
