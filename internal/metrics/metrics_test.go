//go:build !integration

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(PrometheusMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/error", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "error")
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{
			name:           "records metrics for successful request",
			path:           "/test",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "records metrics for error request",
			path:           "/error",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, "/test", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, "/error", "500")))
}

func TestRecordCacheOperation(t *testing.T) {
	RecordCacheOperation("metrics-test", "get", "hit")
	RecordCacheOperation("metrics-test", "get", "hit")
	RecordCacheOperation("metrics-test", "get", "miss")

	assert.Equal(t, float64(2), testutil.ToFloat64(CacheOperationsTotal.WithLabelValues("metrics-test", "get", "hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(CacheOperationsTotal.WithLabelValues("metrics-test", "get", "miss")))
}

func TestRecordRevalidation(t *testing.T) {
	RecordRevalidation("metrics-test", "success")
	RecordRevalidation("metrics-test", "error")

	assert.Equal(t, float64(1), testutil.ToFloat64(CacheRevalidationsTotal.WithLabelValues("metrics-test", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(CacheRevalidationsTotal.WithLabelValues("metrics-test", "error")))
}

func TestRecordFetch(t *testing.T) {
	RecordFetch("metrics-test", "cold", 10*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(CacheFetchDuration, "cache_fetch_duration_seconds"), 1)
}

func TestRecordCircuitBreakerState(t *testing.T) {
	RecordCircuitBreakerState("metrics-test", 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("metrics-test")))

	RecordCircuitBreakerState("metrics-test", 0)
	assert.Equal(t, float64(0), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("metrics-test")))
}
