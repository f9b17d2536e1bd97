//go:build !integration

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowStatus_Valid(t *testing.T) {
	for _, s := range []WorkflowStatus{WorkflowStatusDraft, WorkflowStatusActive, WorkflowStatusPaused, WorkflowStatusArchived} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, WorkflowStatus("running").Valid())
	assert.False(t, WorkflowStatus("").Valid())
}

func TestWorkflow_JSONFieldNames(t *testing.T) {
	wf := Workflow{
		ID:         "42",
		Name:       "nightly sync",
		Owner:      "alice",
		Status:     WorkflowStatusActive,
		WebhookURL: "https://hooks.example.com/42",
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(wf)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "42", fields["id"])
	assert.Equal(t, "active", fields["status"])
	assert.Equal(t, "https://hooks.example.com/42", fields["webhook_url"])
	assert.NotContains(t, fields, "config")
}
