//go:build !integration

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/guttosm/agentflow/internal/domain/model"
	"github.com/guttosm/agentflow/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAgentHandler_Routes(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setupMock      func(*mocks.MockAgentService)
		expectedStatus int
	}{
		{
			name:   "get",
			method: http.MethodGet,
			path:   "/api/agents/7",
			setupMock: func(m *mocks.MockAgentService) {
				m.On("Get", mock.Anything, "7").Return(&model.Agent{ID: "7", Type: "classifier"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "list",
			method: http.MethodGet,
			path:   "/api/agents?owner=bob",
			setupMock: func(m *mocks.MockAgentService) {
				m.On("ListByOwner", mock.Anything, "bob").Return([]model.Agent{{ID: "7"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/api/agents",
			body:   `{"name":"triage","type":"classifier","owner":"bob","config":{"model":"small"}}`,
			setupMock: func(m *mocks.MockAgentService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Agent")).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "create without config",
			method:         http.MethodPost,
			path:           "/api/agents",
			body:           `{"name":"triage","type":"classifier","owner":"bob"}`,
			setupMock:      func(*mocks.MockAgentService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "update",
			method: http.MethodPut,
			path:   "/api/agents/7",
			body:   `{"type":"router"}`,
			setupMock: func(m *mocks.MockAgentService) {
				m.On("Update", mock.Anything, "7", mock.Anything).Return(&model.Agent{ID: "7", Type: "classifier"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/api/agents/7",
			setupMock: func(m *mocks.MockAgentService) {
				m.On("Delete", mock.Anything, "7").Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "deadline exceeded",
			method: http.MethodGet,
			path:   "/api/agents/7",
			setupMock: func(m *mocks.MockAgentService) {
				m.On("Get", mock.Anything, "7").Return(nil, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockAgentService)
			tt.setupMock(svc)
			router := newTestRouter(NewAgentHandler(svc))

			w := do(router, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestAgentHandler_UpdateAppliesFields(t *testing.T) {
	svc := new(mocks.MockAgentService)
	svc.On("Update", mock.Anything, "7", mock.Anything).
		Return(&model.Agent{ID: "7", Name: "triage", Type: "classifier"}, nil)
	router := newTestRouter(NewAgentHandler(svc))

	w := do(router, http.MethodPut, "/api/agents/7", `{"type":"router"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data model.Agent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "router", resp.Data.Type)
	assert.Equal(t, "triage", resp.Data.Name)
}
