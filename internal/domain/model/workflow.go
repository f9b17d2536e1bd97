// Package model defines the core domain entities served by agentflow.
package model

import "time"

// WorkflowStatus is the lifecycle state of a workflow.
type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "draft"
	WorkflowStatusActive   WorkflowStatus = "active"
	WorkflowStatusPaused   WorkflowStatus = "paused"
	WorkflowStatusArchived WorkflowStatus = "archived"
)

// Valid reports whether s is a known status.
func (s WorkflowStatus) Valid() bool {
	switch s {
	case WorkflowStatusDraft, WorkflowStatusActive, WorkflowStatusPaused, WorkflowStatusArchived:
		return true
	}
	return false
}

// Workflow is an automation owned by a user. Config is opaque to the service.
type Workflow struct {
	ID         string         `json:"id" bson:"_id"`
	Name       string         `json:"name" bson:"name"`
	Owner      string         `json:"owner" bson:"owner"`
	Status     WorkflowStatus `json:"status" bson:"status"`
	Config     map[string]any `json:"config,omitempty" bson:"config,omitempty"`
	WebhookURL string         `json:"webhook_url,omitempty" bson:"webhook_url,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" bson:"updated_at"`
}
