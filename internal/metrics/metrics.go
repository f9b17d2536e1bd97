// Package metrics provides Prometheus metrics collection for the agentflow service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// CacheOperationsTotal tracks cache operations per cache instance.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"cache", "operation", "result"},
	)

	// CacheRevalidationsTotal tracks background stale-while-revalidate refreshes.
	CacheRevalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_revalidations_total",
			Help: "Total number of background cache revalidations",
		},
		[]string{"cache", "result"},
	)

	// CacheFetchDuration tracks how long caller-supplied fetch functions take.
	CacheFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_fetch_duration_seconds",
			Help:    "Duration of cache fill fetches in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"cache", "mode"},
	)

	// CircuitBreakerState exposes the current state of each breaker
	// (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(cache, operation, result string) {
	CacheOperationsTotal.WithLabelValues(cache, operation, result).Inc()
}

// RecordRevalidation records the outcome of a background revalidation.
func RecordRevalidation(cache, result string) {
	CacheRevalidationsTotal.WithLabelValues(cache, result).Inc()
}

// RecordFetch records the duration of a fetch made to fill the cache.
// mode is "cold" for blocking misses and "background" for revalidations.
func RecordFetch(cache, mode string, duration time.Duration) {
	CacheFetchDuration.WithLabelValues(cache, mode).Observe(duration.Seconds())
}

// RecordCircuitBreakerState updates the state gauge for a breaker.
func RecordCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
