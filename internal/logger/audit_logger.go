package logger

import (
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

// LogActualDerived records a recomputed race actual.
func (al *AuditLogger) LogActualDerived(season, round int, pole, p1, p2, p3, fastestLap string) {
	al.WithFields(logrus.Fields{
		"season":      season,
		"round":       round,
		"pole":        pole,
		"p1":          p1,
		"p2":          p2,
		"p3":          p3,
		"fastest_lap": fastestLap,
	}).Info("Race actual derived")
}

// LogOverrideApplied records an adjudicated side-bet override.
func (al *AuditLogger) LogOverrideApplied(season, round int, overrides map[string]bool, appliedBy string) {
	al.WithFields(logrus.Fields{
		"season":     season,
		"round":      round,
		"overrides":  overrides,
		"applied_by": appliedBy,
	}).Info("Actual override applied")
}

// LogOverrideRejected records an override that touched standings fields or unknown keys.
func (al *AuditLogger) LogOverrideRejected(season, round int, overrides map[string]bool, err error) {
	al.WithFields(logrus.Fields{
		"season":    season,
		"round":     round,
		"overrides": overrides,
	}).WithError(err).Warn("Actual override rejected")
}

// LogAdjudicationRecorded records a manual hit/miss decision on a season pick.
func (al *AuditLogger) LogAdjudicationRecorded(user string, season int, field, status, recordedBy string) {
	al.WithFields(logrus.Fields{
		"user":        user,
		"season":      season,
		"field":       field,
		"status":      status,
		"recorded_by": recordedBy,
	}).Info("Adjudication recorded")
}
