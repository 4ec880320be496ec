package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/saran-softdev/component-library-sub001/pkg/config"
)

// Counter metrics
var (
	// Resolution outcomes by operation (sidebar, components) and
	// outcome (ok, invalid_argument, module_not_found, no_matrix,
	// forbidden, store_unavailable)
	ResolutionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_resolutions_total",
			Help: "Total number of access resolutions by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// Admin operation counter by entity and operation
	AdminOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_admin_operations_total",
			Help: "Total number of admin operations by entity and operation",
		},
		[]string{"entity", "operation"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AccessErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_errors_total",
			Help: "Total number of access service errors",
		},
		[]string{"type"}, // "invalid_token", "duplicate_key", "db_error" etc.
	)

	// Cache effectiveness of the resolution facade
	CacheHitCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_cache_hits_total",
			Help: "Total number of resolution cache hits",
		},
		[]string{"operation"},
	)
	CacheMissCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_cache_misses_total",
			Help: "Total number of resolution cache misses",
		},
		[]string{"operation"},
	)
	CacheInvalidationCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "access_cache_invalidations_total",
			Help: "Total number of resolution cache purges after mutations",
		},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "access_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "access_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "access_info",
			Help: "Information about the access resolution service",
		},
		[]string{"version", "environment"},
	)
)

func init() {
	prometheus.MustRegister(ResolutionCounter)
	prometheus.MustRegister(AdminOperationCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AccessErrorCounter)
	prometheus.MustRegister(CacheHitCounter)
	prometheus.MustRegister(CacheMissCounter)
	prometheus.MustRegister(CacheInvalidationCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
	prometheus.MustRegister(InfoGauge)
}

// InitMetrics sets the static service info from configuration.
func InitMetrics(cfg *config.Config) {
	InfoGauge.With(prometheus.Labels{
		"version":     "1.0.0",
		"environment": cfg.Server.Env,
	}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordResolution records a resolution outcome by operation
func RecordResolution(operation, outcome string) {
	ResolutionCounter.With(prometheus.Labels{
		"operation": operation,
		"outcome":   outcome,
	}).Inc()
}

// RecordAccessError records a service error by type
func RecordAccessError(errorType string) {
	AccessErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordAdminOperation records an admin CRUD operation
func RecordAdminOperation(entity, operation string) {
	AdminOperationCounter.With(prometheus.Labels{
		"entity":    entity,
		"operation": operation,
	}).Inc()
}

// RecordCacheHit records a resolution cache hit
func RecordCacheHit(operation string) {
	CacheHitCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordCacheMiss records a resolution cache miss
func RecordCacheMiss(operation string) {
	CacheMissCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordCacheInvalidation records a cache purge after a mutation
func RecordCacheInvalidation() {
	CacheInvalidationCounter.Inc()
}
