// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRunStarted logs the start of a prediction run.
func (al *AuditLogger) LogRunStarted(runType string, seed int64, playerCount int, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"run_type":     runType,
		"seed":         seed,
		"player_count": playerCount,
		"timestamp":    timestamp.Unix(),
	}).Info("Prediction run started")
}

// LogRunCompleted logs the completion of a prediction run.
func (al *AuditLogger) LogRunCompleted(runType string, picksSurfaced, archived int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"run_type":        runType,
		"picks_surfaced":  picksSurfaced,
		"archived":        archived,
		"run_duration_ms": durationMs,
	}).Info("Prediction run completed")
}

// LogConfigOverride logs configuration overrides applied at startup.
func (al *AuditLogger) LogConfigOverride(parameterName string, oldValue, newValue interface{}, source string) {
	al.WithFields(logrus.Fields{
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
		"source":         source,
	}).Info("Configuration parameter overridden")
}

// LogRecordRejection logs a player record rejected by validation.
func (al *AuditLogger) LogRecordRejection(playerName, team, reason string) {
	al.WithFields(logrus.Fields{
		"player_name": playerName,
		"team":        team,
		"reason":      reason,
	}).Warn("Player record rejected")
}

// LogArchivePurge logs removal of aged prediction archives.
func (al *AuditLogger) LogArchivePurge(olderThanDays int, removed int64) {
	al.WithFields(logrus.Fields{
		"older_than_days": olderThanDays,
		"removed":         removed,
	}).Info("Prediction archive purged")
}
