// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs decouple the HTTP layer from the domain model. Request validation
// uses gin binding tags, backed by go-playground/validator.
package dto

import "github.com/guttosm/agentflow/internal/domain/model"

// CreateWorkflowRequest is the body of POST /api/workflows.
type CreateWorkflowRequest struct {
	Name       string         `json:"name" binding:"required,max=200"`
	Owner      string         `json:"owner" binding:"required,max=100"`
	Status     string         `json:"status" binding:"omitempty,oneof=draft active paused archived"`
	Config     map[string]any `json:"config"`
	WebhookURL string         `json:"webhook_url" binding:"omitempty,url"`
}

// ToModel converts the request into a workflow without identity fields.
func (r CreateWorkflowRequest) ToModel() model.Workflow {
	status := model.WorkflowStatus(r.Status)
	if status == "" {
		status = model.WorkflowStatusDraft
	}
	return model.Workflow{
		Name:       r.Name,
		Owner:      r.Owner,
		Status:     status,
		Config:     r.Config,
		WebhookURL: r.WebhookURL,
	}
}

// UpdateWorkflowRequest is the body of PUT /api/workflows/:id. Nil fields
// are left unchanged.
type UpdateWorkflowRequest struct {
	Name       *string        `json:"name" binding:"omitempty,max=200"`
	Status     *string        `json:"status" binding:"omitempty,oneof=draft active paused archived"`
	Config     map[string]any `json:"config"`
	WebhookURL *string        `json:"webhook_url" binding:"omitempty,url"`
}

// Apply copies the set fields onto wf.
func (r UpdateWorkflowRequest) Apply(wf *model.Workflow) {
	if r.Name != nil {
		wf.Name = *r.Name
	}
	if r.Status != nil {
		wf.Status = model.WorkflowStatus(*r.Status)
	}
	if r.Config != nil {
		wf.Config = r.Config
	}
	if r.WebhookURL != nil {
		wf.WebhookURL = *r.WebhookURL
	}
}

// CreateAgentRequest is the body of POST /api/agents.
type CreateAgentRequest struct {
	Name   string         `json:"name" binding:"required,max=200"`
	Type   string         `json:"type" binding:"required,max=50"`
	Owner  string         `json:"owner" binding:"required,max=100"`
	Config map[string]any `json:"config" binding:"required"`
}

// ToModel converts the request into an agent without identity fields.
func (r CreateAgentRequest) ToModel() model.Agent {
	return model.Agent{
		Name:   r.Name,
		Type:   r.Type,
		Owner:  r.Owner,
		Config: r.Config,
	}
}

// UpdateAgentRequest is the body of PUT /api/agents/:id. Nil fields are
// left unchanged.
type UpdateAgentRequest struct {
	Name   *string        `json:"name" binding:"omitempty,max=200"`
	Type   *string        `json:"type" binding:"omitempty,max=50"`
	Config map[string]any `json:"config"`
}

// Apply copies the set fields onto a.
func (r UpdateAgentRequest) Apply(a *model.Agent) {
	if r.Name != nil {
		a.Name = *r.Name
	}
	if r.Type != nil {
		a.Type = *r.Type
	}
	if r.Config != nil {
		a.Config = r.Config
	}
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ErrMissingOwner is returned when a list request has no owner.
var ErrMissingOwner = &ValidationError{Field: "owner", Message: "is required"}
