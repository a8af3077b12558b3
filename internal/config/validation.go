// Package config provides configuration management for the paddock simulator.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

const weightSumTolerance = 1e-6

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("markets", validateMarkets)
	_ = v.RegisterValidation("storagedriver", validateStorageDriver)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// ValidateSimulation validates simulation parameters on their own, for callers
// that build engines without a full application config.
func ValidateSimulation(sim *SimulationConfig) error {
	cv := NewValidator()
	if err := cv.validator.Struct(sim); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return validateSimulationCrossField(sim)
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

func validateStorageDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "sqlite", "postgres":
		return true
	default:
		return false
	}
}

func validateMarkets(fl validator.FieldLevel) bool {
	markets, ok := fl.Field().Interface().([]string)
	if !ok || len(markets) == 0 {
		return false
	}

	validMarkets := map[string]bool{
		"WIN":    true,
		"PLACE":  true,
		"EXACTA": true,
	}
	for _, market := range markets {
		if !validMarkets[market] {
			return false
		}
	}
	return true
}

func validateCrossField(cfg *Config) error {
	if err := validateSimulationCrossField(&cfg.Simulation); err != nil {
		return err
	}

	if cfg.Storage.Driver == "postgres" {
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.Port == 0 {
			return fmt.Errorf("postgres storage requires database host, port and name")
		}
		if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	return nil
}

// validateSimulationCrossField rejects parameter combinations the engines
// would otherwise have to coerce.
func validateSimulationCrossField(sim *SimulationConfig) error {
	if sim.Track.SegmentLength > sim.Track.Length {
		return fmt.Errorf("segment_length (%.2f) cannot exceed track length (%.2f)", sim.Track.SegmentLength, sim.Track.Length)
	}

	if len(sim.Form.Weights) != sim.Form.Depth {
		return fmt.Errorf("form weights length %d must equal form depth %d", len(sim.Form.Weights), sim.Form.Depth)
	}
	sum := 0.0
	for _, w := range sim.Form.Weights {
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("form weights must sum to 1.0, got %.6f", sum)
	}

	if _, ok := sim.Terrain.Modifiers[strings.ToLower(sim.Terrain.Neutral)]; !ok {
		return fmt.Errorf("neutral terrain %q has no modifier entry", sim.Terrain.Neutral)
	}
	for _, t := range sim.Terrain.PatchTypes {
		if _, ok := sim.Terrain.Modifiers[strings.ToLower(t)]; !ok {
			return fmt.Errorf("patch terrain %q has no modifier entry", t)
		}
	}

	if sim.Retirement.MinRetireAge < sim.Rookie.StartingAge {
		return fmt.Errorf("min_retire_age cannot be below rookie starting_age")
	}

	if len(sim.Championship.Points) == 0 {
		return fmt.Errorf("championship points table cannot be empty")
	}

	return nil
}

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
		case "markets":
			errMsg += fmt.Sprintf("- Field '%s' must only contain WIN, PLACE or EXACTA markets\n", field)
		case "storagedriver":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: sqlite, postgres\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
