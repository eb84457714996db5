// Package logger provides prediction-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for prediction operations.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogSlateEvaluation logs the completion of a slate evaluation run.
func (pl *PredictionLogger) LogSlateEvaluation(runType string, playersEvaluated, picksSurfaced int, meanConfidence, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"run_type":               runType,
		"players_evaluated":      playersEvaluated,
		"picks_surfaced":         picksSurfaced,
		"mean_confidence":        meanConfidence,
		"evaluation_duration_ms": durationMs,
	}).Info("Slate evaluation completed")
}

// LogPick logs a single surfaced prediction pick.
func (pl *PredictionLogger) LogPick(playerName, team, classification, pathway, dominantSignal string, confidence, lower, upper float64) {
	pl.WithFields(logrus.Fields{
		"player_name":      playerName,
		"team":             team,
		"classification":   classification,
		"pathway":          pathway,
		"dominant_signal":  dominantSignal,
		"confidence":       confidence,
		"confidence_lower": lower,
		"confidence_upper": upper,
	}).Info("Prediction pick surfaced")
}

// LogMarketComparison logs a model-versus-market value comparison.
func (pl *PredictionLogger) LogMarketComparison(playerName, oddsAmerican string, impliedProbability, modelProbability float64, assessment string) {
	pl.WithFields(logrus.Fields{
		"player_name":         playerName,
		"odds_american":       oddsAmerican,
		"implied_probability": impliedProbability,
		"model_probability":   modelProbability,
		"value_assessment":    assessment,
	}).Info("Market comparison recorded")
}

// LogThresholdFilter logs the confidence threshold cut.
func (pl *PredictionLogger) LogThresholdFilter(runType string, candidatesBefore, candidatesAfter int, threshold float64) {
	pl.WithFields(logrus.Fields{
		"run_type":             runType,
		"candidates_before":    candidatesBefore,
		"candidates_after":     candidatesAfter,
		"confidence_threshold": threshold,
	}).Info("Confidence threshold applied")
}

// LogDataQualityWarning logs sparse history for a player.
func (pl *PredictionLogger) LogDataQualityWarning(playerName string, observations, expectedGames int, quality float64) {
	pl.WithFields(logrus.Fields{
		"player_name":    playerName,
		"observations":   observations,
		"expected_games": expectedGames,
		"data_quality":   quality,
	}).Warn("Sparse game history for player")
}

// LogArchiveResult logs the outcome of archiving a slate.
func (pl *PredictionLogger) LogArchiveResult(runType string, archived, failed int) {
	pl.WithFields(logrus.Fields{
		"run_type": runType,
		"archived": archived,
		"failed":   failed,
	}).Info("Prediction slate archived")
}
