//go:build !integration

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_getLogLevel(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   zerolog.Level
	}{
		{name: "2xx returns info", statusCode: 200, expected: zerolog.InfoLevel},
		{name: "3xx returns info", statusCode: 301, expected: zerolog.InfoLevel},
		{name: "4xx returns warn", statusCode: 400, expected: zerolog.WarnLevel},
		{name: "404 returns warn", statusCode: 404, expected: zerolog.WarnLevel},
		{name: "5xx returns error", statusCode: 500, expected: zerolog.ErrorLevel},
		{name: "503 returns error", statusCode: 503, expected: zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getLogLevel(tt.statusCode))
		})
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		statusCode    int
		expectedLevel string
	}{
		{name: "successful request logs info", statusCode: http.StatusOK, expectedLevel: "info"},
		{name: "client error logs warn", statusCode: http.StatusNotFound, expectedLevel: "warn"},
		{name: "server error logs error", statusCode: http.StatusServiceUnavailable, expectedLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			original := log.Logger
			log.Logger = zerolog.New(&buf)
			t.Cleanup(func() { log.Logger = original })

			router := gin.New()
			router.Use(RequestID())
			router.Use(RequestLogger())
			router.GET("/api/workflows/:id", func(c *gin.Context) {
				c.Status(tt.statusCode)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/workflows/42", nil)
			req.Header.Set(RequestIDHeader, "req-1")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.statusCode, w.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.expectedLevel, entry["level"])
			assert.Equal(t, "req-1", entry["request_id"])
			assert.Equal(t, "/api/workflows/42", entry["path"])
			assert.Equal(t, float64(tt.statusCode), entry["status_code"])
		})
	}
}
