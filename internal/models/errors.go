package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
)

// ValidationError reports malformed or missing identifiers supplied by a caller.
// It is surfaced as-is and never retried.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

// NewValidationError creates a validation error with a stable code
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// WithField returns a copy of the error bound to a field name
func (e *ValidationError) WithField(field string) *ValidationError {
	clone := *e
	clone.Field = field
	return &clone
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s (%s)", e.Field, e.Message, e.Code)
	}
	return fmt.Sprintf("validation failed: %s (%s)", e.Message, e.Code)
}

// Is matches validation errors by code so sentinels work with errors.Is
func (e *ValidationError) Is(target error) bool {
	var other *ValidationError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// ConfigurationError reports an invalid static setting. These are fatal at startup.
type ConfigurationError struct {
	Setting string
	Message string
}

// NewConfigurationError creates a configuration error for a setting
func NewConfigurationError(setting, message string) *ConfigurationError {
	return &ConfigurationError{Setting: setting, Message: message}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Setting, e.Message)
}

// Validation sentinels
var (
	ErrSeasonRequired     = NewValidationError("season_required", "season must be a positive year")
	ErrRoundRequired      = NewValidationError("round_required", "round must be positive")
	ErrUserRequired       = NewValidationError("user_required", "user is required")
	ErrInvalidLockField   = NewValidationError("invalid_lock_field", "lock field must reference a scoreable slot")
	ErrDuplicateOrderID   = NewValidationError("duplicate_order_id", "championship order contains a repeated id")
	ErrInvalidOrderLength = NewValidationError("invalid_order_length", "championship order has the wrong number of slots")
	ErrStandingsOverride  = NewValidationError("standings_override", "standings fields cannot be overridden")
	ErrInvalidRuns        = NewValidationError("invalid_runs", "simulation runs must be positive")
)

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsConfigurationError reports whether err carries a ConfigurationError
func IsConfigurationError(err error) bool {
	var c *ConfigurationError
	return errors.As(err, &c)
}

// ValidateSeasonRound checks the identifiers every round-level lookup needs
func ValidateSeasonRound(season, round int) error {
	if season <= 0 {
		return ErrSeasonRequired.WithField("season")
	}
	if round <= 0 {
		return ErrRoundRequired.WithField("round")
	}
	return nil
}
