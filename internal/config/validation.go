package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/podium-picks/internal/scoring"
	"github.com/yourusername/podium-picks/internal/tiebreak"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// customValidations maps struct tags to the rules registered on every validator
var customValidations = map[string]validator.Func{
	"environment":  validateEnvironment,
	"loglevel":     validateLogLevel,
	"wildcardrule": validateWildcardRule,
	"tiebreakkeys": validateTieBreakKeys,
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() (*CustomValidator, error) {
	v := validator.New()
	if err := registerValidations(v, customValidations); err != nil {
		return nil, err
	}
	return &CustomValidator{validator: v}, nil
}

func registerValidations(v *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return nil
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv, err := NewValidator()
	if err != nil {
		return err
	}
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateWildcardRule(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case scoring.WildcardRuleTop10, scoring.WildcardRuleNone:
		return true
	default:
		return false
	}
}

// validateTieBreakKeys requires known keys without repeats
func validateTieBreakKeys(fl validator.FieldLevel) bool {
	keys, ok := fl.Field().Interface().([]string)
	if !ok || len(keys) == 0 {
		return false
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !tiebreak.IsKnownKey(k) || seen[k] {
			return false
		}
		seen[k] = true
	}
	return true
}

// validateCrossField checks rules spanning several sections
func validateCrossField(cfg *Config) error {
	if _, err := cfg.ScoringRules(); err != nil {
		return err
	}
	if _, err := cfg.SeasonPickRules(); err != nil {
		return err
	}
	if _, err := tiebreak.NewResolver(cfg.TieBreak.Keys); err != nil {
		return err
	}
	if err := cfg.Projection.Model.Validate(); err != nil {
		return err
	}
	if err := cfg.Projection.Simulation.Validate(); err != nil {
		return err
	}

	if cfg.Storage.Driver == StoragePostgres {
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("postgres storage requires database host, name and user")
		}
		if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
			return fmt.Errorf("max_idle_connections cannot exceed max_connections")
		}
	}

	if cfg.IsProduction() && cfg.Storage.Driver == StoragePostgres && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "wildcardrule":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: top10, none\n", field)
		case "tiebreakkeys":
			errMsg += fmt.Sprintf("- Field '%s' must list known tie-break keys without repeats, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		if isTestCredential(cfg.Database.Password) && !cfg.Secrets.Enabled {
			return fmt.Errorf("production environment should not use placeholder database credentials")
		}
		if cfg.App.LogLevel == "debug" {
			return fmt.Errorf("debug logging should be disabled in production")
		}
	}
	return nil
}

func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
