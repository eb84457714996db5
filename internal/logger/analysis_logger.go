// Package logger provides analysis-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AnalysisLogger provides dedicated logging for archive analysis operations.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogReportGenerated logs a completed performance report.
func (al *AnalysisLogger) LogReportGenerated(reportPath string, lookbackDays, predictionsAnalyzed int) {
	al.WithFields(logrus.Fields{
		"report_path":          reportPath,
		"lookback_days":        lookbackDays,
		"predictions_analyzed": predictionsAnalyzed,
	}).Info("Performance report generated")
}

// LogConfidenceDrift logs the confidence drift between the first and last run of the window.
func (al *AnalysisLogger) LogConfidenceDrift(firstRunMean, lastRunMean, drift float64) {
	al.WithFields(logrus.Fields{
		"first_run_mean": firstRunMean,
		"last_run_mean":  lastRunMean,
		"drift":          drift,
	}).Info("Confidence drift computed")
}

// LogPathwayBreakdown logs the per-pathway aggregate for the analysis window.
func (al *AnalysisLogger) LogPathwayBreakdown(pathway string, predictions int, meanConfidence float64) {
	al.WithFields(logrus.Fields{
		"pathway":         pathway,
		"predictions":     predictions,
		"mean_confidence": meanConfidence,
	}).Info("Pathway breakdown computed")
}

// LogEmptyWindow logs an analysis window with no archived predictions.
func (al *AnalysisLogger) LogEmptyWindow(lookbackDays int) {
	al.WithFields(logrus.Fields{
		"lookback_days": lookbackDays,
	}).Warn("No archived predictions in analysis window")
}
