package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Chat metrics
	QueriesTotal         *prometheus.CounterVec
	QueryDurationSeconds prometheus.Histogram
	MatchScore           *prometheus.HistogramVec

	// Store metrics
	StoreOperationsTotal *prometheus.CounterVec

	// Suggestion metrics
	SuggestionsTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec

	// Backup metrics
	BackupTotal           *prometheus.CounterVec
	BackupDurationSeconds prometheus.Histogram
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		QueriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "russel_queries_total",
				Help: "Total number of chat queries by outcome",
			},
			[]string{"outcome"}, // outcome: matched, keyword_matched, no_match, error
		),

		QueryDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "russel_query_duration_seconds",
				Help:    "Chat query processing duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
			},
		),

		MatchScore: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "russel_match_score",
				Help:    "Best token-set ratio score per query by method",
				Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
			[]string{"method"}, // method: question, keyword
		),

		StoreOperationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "russel_store_operations_total",
				Help: "Total number of store operations by operation and status",
			},
			[]string{"operation", "status"}, // status: success, error, not_found
		),

		SuggestionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "russel_suggestions_total",
				Help: "Total number of suggestion lookups by result",
			},
			[]string{"result"}, // result: hit, empty, error
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "russel_http_errors_total",
				Help: "Total HTTP errors by type and module",
			},
			[]string{"error_type", "module"}, // error_type: bad_request, unauthorized, not_found, internal
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "russel_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: session
		),

		BackupTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "russel_backup_total",
				Help: "Total number of snapshot backups by status",
			},
			[]string{"status"}, // status: success, error
		),

		BackupDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "russel_backup_duration_seconds",
				Help:    "Snapshot backup duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
			},
		),
	}

	return m
}

// RecordQuery records a chat query with its outcome and duration
func (m *Metrics) RecordQuery(outcome string, duration float64) {
	m.QueriesTotal.WithLabelValues(outcome).Inc()
	m.QueryDurationSeconds.Observe(duration)
}

// RecordMatchScore records the best score seen for a query
func (m *Metrics) RecordMatchScore(method string, score int) {
	m.MatchScore.WithLabelValues(method).Observe(float64(score))
}

// RecordStoreOperation records a store operation with status
func (m *Metrics) RecordStoreOperation(operation, status string) {
	m.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordSuggestions records a suggestion lookup result
func (m *Metrics) RecordSuggestions(result string) {
	m.SuggestionsTotal.WithLabelValues(result).Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, module string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, module).Inc()
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// RecordBackup records a snapshot backup attempt
func (m *Metrics) RecordBackup(status string, duration float64) {
	m.BackupTotal.WithLabelValues(status).Inc()
	m.BackupDurationSeconds.Observe(duration)
}
