package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("chatty")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	log = NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewLoggerProductionUsesJSON(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	log := NewLogger("info")
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestNewLoggerOptions(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger("warn", WithOutput(buf), WithEnvironment("production"))

	log.Info("dropped")
	log.Warn("kept")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "kept", logEntry["msg"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestNewLoggerEnvironmentOverridesVariable(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	log := NewLogger("info", WithEnvironment("development"))
	_, ok := log.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}

func TestScoringLoggerRoundScored(t *testing.T) {
	log, buf := setupTestLogger()

	NewScoringLogger(log).LogRoundScored(2025, 4, 12, 9, true, 1.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "scoring", logEntry["component"])
	assert.Equal(t, float64(4), logEntry["round"])
	assert.Equal(t, float64(9), logEntry["high_score"])
	assert.Equal(t, "Round scored", logEntry["msg"])
}

func TestScoringLoggerTieBreak(t *testing.T) {
	log, buf := setupTestLogger()

	NewScoringLogger(log).LogTieBreakDecided(2025, "lock_hit_rate", "ana leads ben")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "lock_hit_rate", logEntry["decided_by"])
	assert.Equal(t, "debug", logEntry["level"])
}

func TestProjectionLoggerSimulation(t *testing.T) {
	log, buf := setupTestLogger()

	NewProjectionLogger(log).LogSimulationCompleted("run-1", 2025, 5, 1000, 20, 42, "norris", 0.31, 12.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "projection", logEntry["component"])
	assert.Equal(t, "norris", logEntry["favourite"])
	assert.Equal(t, float64(42), logEntry["seed"])
}

func TestProjectionLoggerDegenerate(t *testing.T) {
	log, buf := setupTestLogger()

	NewProjectionLogger(log).LogDegenerateField(2025, 5, "empty_field")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "empty_field", logEntry["reason"])
}

func TestAuditLoggerOverrideRejected(t *testing.T) {
	log, buf := setupTestLogger()

	NewAuditLogger(log).LogOverrideRejected(2025, 3, map[string]bool{"p1": true}, errors.New("standings fields cannot be overridden"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "standings fields cannot be overridden", logEntry["error"])
}

func TestAuditLoggerActualDerived(t *testing.T) {
	log, buf := setupTestLogger()

	NewAuditLogger(log).LogActualDerived(2025, 3, "norris", "leclerc", "norris", "albon", "leclerc")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "leclerc", logEntry["p1"])
	assert.Equal(t, "Race actual derived", logEntry["msg"])
}
