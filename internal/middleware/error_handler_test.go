//go:build !integration

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/agentflow/internal/circuitbreaker"
	"github.com/guttosm/agentflow/internal/repository"
	"github.com/guttosm/agentflow/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		acceptLanguage string
		expectedStatus int
		mustContain    []string
	}{
		{
			name:           "unknown errors are internal",
			err:            errors.New("test error"),
			expectedStatus: http.StatusInternalServerError,
			mustContain:    []string{"internal_error", "An unexpected error occurred"},
		},
		{
			name:           "not found",
			err:            fmt.Errorf("workflow 42: %w", repository.ErrNotFound),
			expectedStatus: http.StatusNotFound,
			mustContain:    []string{`"error":"not_found"`},
		},
		{
			name:           "open circuit is unavailable",
			err:            circuitbreaker.ErrCircuitOpen,
			expectedStatus: http.StatusServiceUnavailable,
			mustContain:    []string{"service_unavailable", "temporarily unavailable"},
		},
		{
			name:           "missing repository is unavailable",
			err:            service.ErrRepositoryNotConfigured,
			acceptLanguage: "nl",
			expectedStatus: http.StatusServiceUnavailable,
			mustContain:    []string{"Dienst tijdelijk niet beschikbaar"},
		},
		{
			name:           "deadline is a gateway timeout",
			err:            context.DeadlineExceeded,
			expectedStatus: http.StatusGatewayTimeout,
			mustContain:    []string{`"error":"timeout"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), ErrorHandler())
			router.GET("/error", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			req := httptest.NewRequest(http.MethodGet, "/error", nil)
			req.Header.Set(RequestIDHeader, "req-9")
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"request_id":"req-9"`)
			for _, substr := range tt.mustContain {
				assert.Contains(t, w.Body.String(), substr)
			}
		})
	}
}

func TestErrorHandler_NoErrors(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), ErrorHandler())
	router.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestErrorHandler_ResponseAlreadyWritten(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), ErrorHandler())
	router.GET("/written", func(c *gin.Context) {
		c.String(http.StatusAccepted, "partial")
		_ = c.Error(errors.New("late failure"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}
