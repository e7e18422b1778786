package logger

import (
	"github.com/sirupsen/logrus"
)

// ScoringLogger provides dedicated logging for scoring and standings.
type ScoringLogger struct {
	*logrus.Entry
}

// NewScoringLogger creates a new scoring logger.
func NewScoringLogger(baseLogger *logrus.Logger) *ScoringLogger {
	return &ScoringLogger{
		Entry: baseLogger.WithField("component", "scoring"),
	}
}

// LogRoundScored logs a scored round.
func (sl *ScoringLogger) LogRoundScored(season, round, predictions, highScore int, actualKnown bool, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"season":              season,
		"round":               round,
		"predictions":         predictions,
		"high_score":          highScore,
		"actual_known":        actualKnown,
		"scoring_duration_ms": durationMs,
	}).Info("Round scored")
}

// LogSeasonAggregated logs a season standings build.
func (sl *ScoringLogger) LogSeasonAggregated(season, users, roundsEvaluated int, leader string, leaderPoints int) {
	sl.WithFields(logrus.Fields{
		"season":           season,
		"users":            users,
		"rounds_evaluated": roundsEvaluated,
		"leader":           leader,
		"leader_points":    leaderPoints,
	}).Info("Season aggregated")
}

// LogTieBreakDecided logs the key separating the top two users.
func (sl *ScoringLogger) LogTieBreakDecided(season int, decidedBy, explanation string) {
	sl.WithFields(logrus.Fields{
		"season":      season,
		"decided_by":  decidedBy,
		"explanation": explanation,
	}).Debug("Tie-break decided")
}

// LogIncompletePrediction logs a prediction scored with empty required slots.
func (sl *ScoringLogger) LogIncompletePrediction(user string, season, round int) {
	sl.WithFields(logrus.Fields{
		"user":   user,
		"season": season,
		"round":  round,
	}).Warn("Prediction missing required slots")
}
