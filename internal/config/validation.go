// Package config provides configuration management for the Hellraiser prediction engine.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/hellraiser/internal/ensemble"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() (*CustomValidator, error) {
	v := validator.New()

	// Register custom validation functions
	rules := map[string]validator.Func{
		"environment":     validateEnvironment,
		"loglevel":        validateLogLevel,
		"runtype":         validateRunType,
		"ensembleweights": validateEnsembleWeights,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}

	return &CustomValidator{validator: v}, nil
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

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateRunType validates the prediction run type field
func validateRunType(fl validator.FieldLevel) bool {
	runType := fl.Field().String()
	switch runType {
	case "morning", "midday", "evening", "adhoc":
		return true
	default:
		return false
	}
}

// validateEnsembleWeights checks the analyzer weight set on the ensemble block
func validateEnsembleWeights(fl validator.FieldLevel) bool {
	ensembleCfg, ok := fl.Field().Interface().(ensemble.Config)
	if !ok {
		return false
	}
	return ensembleCfg.Weights.Validate() == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// The ensemble block carries its own full validation beyond the weight rule
	if err := cfg.Ensemble.Validate(); err != nil {
		return fmt.Errorf("ensemble configuration invalid: %w", err)
	}

	// Validate production environment requirements
	if cfg.IsProduction() {
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
		if cfg.Ensemble.Seed != 0 {
			return fmt.Errorf("production runs must not pin the jitter seed")
		}
	}

	// Validate connection pool settings
	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	// Surfacing more picks than the slate threshold allows is a config mistake
	if cfg.Prediction.ConfidenceThreshold >= cfg.Ensemble.BoundsMax {
		return fmt.Errorf("confidence_threshold %v filters out every possible prediction", cfg.Prediction.ConfidenceThreshold)
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
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "runtype":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: morning, midday, evening, adhoc\n", field)
		case "ensembleweights":
			errMsg += fmt.Sprintf("- Field '%s' has an invalid analyzer weight set\n", field)
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
		// Production must have SSL enabled
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}

		// Production archives every slate for later accuracy analysis
		if !cfg.Prediction.ArchiveEnabled {
			return fmt.Errorf("production environment requires prediction archiving")
		}
	}

	if cfg.IsDevelopment() {
		// A development database should never point at a production host
		if cfg.Database.SSLMode == "verify-full" {
			return fmt.Errorf("development environment should not require verify-full SSL")
		}
	}

	return nil
}
