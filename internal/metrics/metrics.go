// Package metrics provides the centralized Prometheus metrics registry for
// the prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsComputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hellraiser",
		Name:      "predictions_computed_total",
		Help:      "Total number of predictions computed",
	})
	PredictionsArchivedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hellraiser",
		Name:      "predictions_archived_total",
		Help:      "Total number of predictions written to the archive",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hellraiser",
		Name:      "cache_hits_total",
		Help:      "Total number of prediction cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hellraiser",
		Name:      "cache_misses_total",
		Help:      "Total number of prediction cache misses",
	})
	ValidationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hellraiser",
		Name:      "validation_failures_total",
		Help:      "Total number of rejected player records by reason",
	}, []string{"reason"})
)

// Gauge metrics
var (
	ActiveAnalyzers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hellraiser",
		Name:      "active_analyzers",
		Help:      "Number of signal analyzers wired into the estimator",
	})
	LastBatchConfidenceMean = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hellraiser",
		Name:      "last_batch_confidence_mean",
		Help:      "Mean confidence of the most recent batch evaluation",
	})
)

// Histogram metrics
var (
	EstimationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hellraiser",
		Name:      "estimation_duration_seconds",
		Help:      "Duration of a single player estimation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	AnalyzerDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hellraiser",
		Name:      "analyzer_duration_seconds",
		Help:      "Duration of each signal analyzer evaluation in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"analyzer"})
	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hellraiser",
		Name:      "batch_duration_seconds",
		Help:      "Duration of batch evaluations in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	})
	BatchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hellraiser",
		Name:      "batch_size",
		Help:      "Number of player records per batch evaluation",
		Buckets:   []float64{1, 5, 10, 20, 50, 100, 250, 500},
	})
	ArchiveQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hellraiser",
		Name:      "archive_query_duration_seconds",
		Help:      "Duration of prediction archive queries in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PredictionsComputedTotal)
		registry.MustRegister(PredictionsArchivedTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(ValidationFailuresTotal)

		// Register gauge metrics
		registry.MustRegister(ActiveAnalyzers)
		registry.MustRegister(LastBatchConfidenceMean)

		// Register histogram metrics
		registry.MustRegister(EstimationDuration)
		registry.MustRegister(AnalyzerDuration)
		registry.MustRegister(BatchDuration)
		registry.MustRegister(BatchSize)
		registry.MustRegister(ArchiveQueryDuration)

		// Register prediction outcome metrics
		registry.MustRegister(PredictionClassificationsTotal)
		registry.MustRegister(DominantSignalsTotal)
		registry.MustRegister(MarketAssessmentsTotal)
		registry.MustRegister(PredictionConfidence)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// ObserveEstimationDuration records how long a single estimation took.
func ObserveEstimationDuration(durationSeconds float64) {
	PredictionsComputedTotal.Inc()
	EstimationDuration.Observe(durationSeconds)
}

// ObserveAnalyzerDuration records how long one analyzer evaluation took.
func ObserveAnalyzerDuration(analyzer string, durationSeconds float64) {
	AnalyzerDuration.WithLabelValues(analyzer).Observe(durationSeconds)
}

// ObserveBatch records the size and duration of a batch evaluation.
func ObserveBatch(size int, durationSeconds float64) {
	BatchSize.Observe(float64(size))
	BatchDuration.Observe(durationSeconds)
}

// RecordPredictionArchived records a successful archive write.
func RecordPredictionArchived() {
	PredictionsArchivedTotal.Inc()
}

// RecordCacheHit records a prediction cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a prediction cache miss.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordValidationFailure records a rejected player record.
func RecordValidationFailure(reason string) {
	ValidationFailuresTotal.WithLabelValues(reason).Inc()
}

// UpdateActiveAnalyzers updates the wired analyzer count gauge.
func UpdateActiveAnalyzers(count float64) {
	ActiveAnalyzers.Set(count)
}

// UpdateBatchConfidenceMean updates the mean confidence gauge.
func UpdateBatchConfidenceMean(mean float64) {
	LastBatchConfidenceMean.Set(mean)
}

// ObserveArchiveQuery records the duration of an archive query.
func ObserveArchiveQuery(operation string, durationSeconds float64) {
	ArchiveQueryDuration.WithLabelValues(operation).Observe(durationSeconds)
}
