package logger

import (
	"github.com/sirupsen/logrus"
)

// ProjectionLogger provides dedicated logging for race and championship projections.
type ProjectionLogger struct {
	*logrus.Entry
}

// NewProjectionLogger creates a new projection logger.
func NewProjectionLogger(baseLogger *logrus.Logger) *ProjectionLogger {
	return &ProjectionLogger{
		Entry: baseLogger.WithField("component", "projection"),
	}
}

// LogSimulationCompleted logs a finished Monte-Carlo batch.
func (pl *ProjectionLogger) LogSimulationCompleted(runID string, season, round, runs, drivers int, seed int64, favourite string, favouriteWin float64, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"run_id":                 runID,
		"season":                 season,
		"round":                  round,
		"runs":                   runs,
		"drivers":                drivers,
		"seed":                   seed,
		"favourite":              favourite,
		"favourite_win":          favouriteWin,
		"simulation_duration_ms": durationMs,
	}).Info("Race simulation completed")
}

// LogDegenerateField logs a flagged neutral projection.
func (pl *ProjectionLogger) LogDegenerateField(season, round int, reason string) {
	pl.WithFields(logrus.Fields{
		"season": season,
		"round":  round,
		"reason": reason,
	}).Warn("Degenerate projection input")
}

// LogFeatureFallback logs drivers whose features fell back to weaker data.
func (pl *ProjectionLogger) LogFeatureFallback(driverID, level string, sampleSize int, confidence float64) {
	pl.WithFields(logrus.Fields{
		"driver_id":   driverID,
		"fallback":    level,
		"sample_size": sampleSize,
		"confidence":  confidence,
	}).Debug("Feature fallback used")
}

// LogChampionshipProjected logs a championship extrapolation.
func (pl *ProjectionLogger) LogChampionshipProjected(season, roundsRemaining int, leader, leaderTotal string) {
	pl.WithFields(logrus.Fields{
		"season":           season,
		"rounds_remaining": roundsRemaining,
		"leader":           leader,
		"leader_total":     leaderTotal,
	}).Info("Championship projected")
}
