package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_login_total",
			Help: "Total number of login attempts",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Booking lifecycle counters
	RequestOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_request_operations_total",
			Help: "Total number of booking request operations",
		},
		[]string{"operation"}, // "create", "update", "delete", etc.
	)

	MatchTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_match_transitions_total",
			Help: "Total number of match status transitions",
		},
		[]string{"from", "to"},
	)

	// File storage counter by content location
	FileStorageCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_file_uploads_total",
			Help: "Total number of file uploads by storage location",
		},
		[]string{"location"}, // "database" or "external"
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", etc.
	)

	AppErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_app_errors_total",
			Help: "Total number of application errors by kind",
		},
		[]string{"kind"}, // "validation", "not_found", "conflict", "storage", "auth", "internal"
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active tokens
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_active_tokens",
			Help: "Number of currently active authentication tokens",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crm_info",
			Help: "Information about the CRM service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(RequestOperationCounter)
	prometheus.MustRegister(MatchTransitionCounter)
	prometheus.MustRegister(FileStorageCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(AppErrorCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
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

			// Record metrics
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

// IncreaseActiveTokens increments the active tokens gauge
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordAppError records an application error by kind
func RecordAppError(kind string) {
	AppErrorCounter.With(prometheus.Labels{"kind": kind}).Inc()
}

// RecordRequestOperation records a booking request operation
func RecordRequestOperation(operation string) {
	RequestOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordMatchTransition records a match status transition
func RecordMatchTransition(from, to string) {
	MatchTransitionCounter.With(prometheus.Labels{"from": from, "to": to}).Inc()
}

// RecordFileUpload records a file upload by storage location
func RecordFileUpload(location string) {
	FileStorageCounter.With(prometheus.Labels{"location": location}).Inc()
}
