// Package metrics defines prediction-outcome metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome counter vectors
var (
	PredictionClassificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hellraiser",
		Name:      "prediction_classifications_total",
		Help:      "Total number of predictions by classification tier",
	}, []string{"classification", "run_type"})

	DominantSignalsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hellraiser",
		Name:      "dominant_signals_total",
		Help:      "Total number of predictions by dominant signal",
	}, []string{"signal"})

	MarketAssessmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hellraiser",
		Name:      "market_assessments_total",
		Help:      "Total number of predictions by market value assessment",
	}, []string{"assessment"})
)

// Outcome histogram vectors
var (
	PredictionConfidence = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hellraiser",
		Name:      "prediction_confidence",
		Help:      "Confidence scores of computed predictions",
		Buckets:   []float64{20, 30, 40, 45, 50, 55, 60, 65, 70, 75, 85, 95},
	}, []string{"run_type"})
)

// RecordPredictionOutcome records the classification, dominant signal and
// confidence of a finished prediction.
func RecordPredictionOutcome(classification, dominantSignal, runType string, confidence float64) {
	PredictionClassificationsTotal.WithLabelValues(classification, runType).Inc()
	DominantSignalsTotal.WithLabelValues(dominantSignal).Inc()
	PredictionConfidence.WithLabelValues(runType).Observe(confidence)
}

// RecordMarketAssessment records a market value assessment.
func RecordMarketAssessment(assessment string) {
	MarketAssessmentsTotal.WithLabelValues(assessment).Inc()
}
