//go:build !integration

package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/guttosm/agentflow/docs"
	"github.com/guttosm/agentflow/internal/domain/model"
	"github.com/guttosm/agentflow/internal/middleware"
	"github.com/guttosm/agentflow/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRouter_Endpoints(t *testing.T) {
	router := NewRouter(NewHealthHandler(), DefaultRouterConfig())

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "healthz endpoint", method: http.MethodGet, path: "/healthz", expectedStatus: http.StatusOK},
		{name: "readyz endpoint", method: http.MethodGet, path: "/readyz", expectedStatus: http.StatusOK},
		{name: "metrics endpoint", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
		{name: "swagger endpoint", method: http.MethodGet, path: "/swagger/index.html", expectedStatus: http.StatusOK},
		{name: "swagger document", method: http.MethodGet, path: "/swagger/doc.json", expectedStatus: http.StatusOK},
		{name: "unregistered api route", method: http.MethodGet, path: "/api/workflows/1", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_SwaggerDocumentListsRoutes(t *testing.T) {
	router := NewRouter(NewHealthHandler(), DefaultRouterConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	for _, path := range []string{"/api/workflows/{id}", "/api/agents", "/api/cache/{namespace}", "/readyz"} {
		assert.Contains(t, w.Body.String(), `"`+path+`"`)
	}
	assert.Contains(t, w.Body.String(), "agentflow API")
}

func TestRouter_SwaggerBasicAuth(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.SwaggerUser = "ops"
	cfg.SwaggerPass = "secret"
	router := NewRouter(NewHealthHandler(), cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.SetBasicAuth("ops", "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.RateLimit = 2
	cfg.RateWindow = time.Minute
	router := NewRouter(NewHealthHandler(), cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRouter_Idempotency(t *testing.T) {
	svc := new(mocks.MockWorkflowService)
	svc.On("Create", mock.Anything, mock.AnythingOfType("*model.Workflow")).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Workflow).ID = "wf-1" }).
		Return(nil).Once()

	cfg := DefaultRouterConfig()
	cfg.RateLimit = 0
	cfg.EnableIdempotency = true
	router := NewRouter(NewHealthHandler(), cfg, NewWorkflowHandler(svc))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/workflows", strings.NewReader(`{"name":"sync","owner":"alice"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.IdempotencyKeyHeader, "create-sync")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send()
	second := send()

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotencyReplayedHeader))
	assert.Equal(t, "/api/workflows/wf-1", second.Header().Get("Location"))
	svc.AssertExpectations(t)
}
