// Package logger builds the logrus loggers used across podium-picks.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Option customises a logger built by NewLogger
type Option func(*options)

type options struct {
	output      io.Writer
	environment string
}

// WithOutput sends log lines to w instead of stdout
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithEnvironment selects the formatter for an app environment; production logs JSON
func WithEnvironment(env string) Option {
	return func(o *options) { o.environment = env }
}

// NewLogger creates a logger at the given level. Unknown levels fall back to info.
// Without WithEnvironment the ENVIRONMENT variable picks the formatter.
func NewLogger(logLevel string, opts ...Option) *logrus.Logger {
	o := options{output: os.Stdout, environment: os.Getenv("ENVIRONMENT")}
	for _, opt := range opts {
		opt(&o)
	}

	logger := logrus.New()
	logger.SetOutput(o.output)

	if o.environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   o.output == os.Stdout || o.output == os.Stderr,
		})
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
