// Package config provides configuration management for the Courtside application.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"github.com/yourusername/courtside/internal/models"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("kfactor", validateKFactor)
	_ = v.RegisterValidation("datetime", validateDateTime)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("%w: validation failed: %v", models.ErrConfiguration, err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return fmt.Errorf("%w: %v", models.ErrConfiguration, err)
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateKFactor validates the K-factor policy name
func validateKFactor(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "fixed", "decreasing":
		return true
	default:
		return false
	}
}

// validateDateTime validates date strings
func validateDateTime(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Fixed K needs a usable constant
	if cfg.Elo.KFactor.Type == "fixed" && cfg.Elo.KFactor.Value <= 0 {
		return fmt.Errorf("elo.k_factor.value must be positive for a fixed K-factor")
	}

	// Window must name both bounds, in order
	start, end, err := cfg.Elo.Window.Dates()
	if err != nil {
		return err
	}
	if start.IsZero() != end.IsZero() {
		return fmt.Errorf("elo.window needs both start and end")
	}
	if end.Before(start) {
		return fmt.Errorf("elo.window.end must not be before elo.window.start")
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/'")
	}

	// Cron expressions must parse
	for name, spec := range map[string]string{
		"scheduler.season_refresh": cfg.Scheduler.SeasonRefresh,
		"scheduler.cache_purge":    cfg.Scheduler.CachePurge,
	} {
		if spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("%s: invalid cron expression %q: %v", name, spec, err)
		}
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
		case "gt", "gte", "lt", "lte", "gtefield":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "kfactor":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: fixed, decreasing, got '%v'\n", field, value)
		case "datetime":
			errMsg += fmt.Sprintf("- Field '%s' must be a date in YYYY-MM-DD form, got '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("%w: configuration validation failed:\n%s", models.ErrConfiguration, errMsg)
}
