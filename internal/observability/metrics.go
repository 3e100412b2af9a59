// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Lifecycle batch metrics
	KeywordsEvaluated prometheus.Counter
	DecisionsApplied  *prometheus.CounterVec
	AlertsRaised      *prometheus.CounterVec
	BatchRunsTotal    *prometheus.CounterVec
	BatchDuration     *prometheus.HistogramVec
	BatchErrors       prometheus.Counter

	// Cannibalization metrics
	CannibalizationIssues prometheus.Gauge
	NegativesCreated      *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
	UptimeSeconds     prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "ppc_keyword_lab"
	}

	return &Metrics{
		// Lifecycle batch metrics
		KeywordsEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "keywords_evaluated_total",
			Help:      "Total number of keywords evaluated by the daily batch",
		}),
		DecisionsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "decisions_applied_total",
			Help:      "Total number of decisions applied by action",
		}, []string{"action"}),
		AlertsRaised: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "alerts_raised_total",
			Help:      "Total number of alerts raised by level",
		}, []string{"level"}),
		BatchRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "batch_runs_total",
			Help:      "Total number of daily batch runs by status",
		}, []string{"status"}),
		BatchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "batch_duration_seconds",
			Help:      "Daily batch execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"brand"}),
		BatchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "batch_errors_total",
			Help:      "Total number of per-keyword errors during batch runs",
		}),

		// Cannibalization metrics
		CannibalizationIssues: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cannibalization",
			Name:      "open_issues",
			Help:      "Number of unprotected exact/broad overlaps found by the last scan",
		}),
		NegativesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "negatives",
			Name:      "created_total",
			Help:      "Total number of negative keywords created by rule trigger",
		}, []string{"trigger"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful batch run",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordKeywordEvaluated increments the keywords evaluated counter.
func RecordKeywordEvaluated() {
	DefaultMetrics.KeywordsEvaluated.Inc()
}

// RecordDecision increments the decisions applied counter for an action.
func RecordDecision(action string) {
	DefaultMetrics.DecisionsApplied.WithLabelValues(action).Inc()
}

// RecordAlert increments the alerts raised counter for a level.
func RecordAlert(level string) {
	DefaultMetrics.AlertsRaised.WithLabelValues(level).Inc()
}

// RecordBatchRun records a daily batch run.
func RecordBatchRun(brand, status string, durationSeconds float64) {
	DefaultMetrics.BatchRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.BatchDuration.WithLabelValues(brand).Observe(durationSeconds)
}

// RecordBatchErrors adds per-keyword error counts from a batch run.
func RecordBatchErrors(count int) {
	DefaultMetrics.BatchErrors.Add(float64(count))
}

// UpdateCannibalizationIssues updates the open issues gauge.
func UpdateCannibalizationIssues(count int) {
	DefaultMetrics.CannibalizationIssues.Set(float64(count))
}

// RecordNegativeCreated increments the negatives created counter for a trigger.
func RecordNegativeCreated(trigger string) {
	DefaultMetrics.NegativesCreated.WithLabelValues(trigger).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
