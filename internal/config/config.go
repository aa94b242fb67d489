// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Reference data sources
	DataDir      string // Directory scanned for .csv/.xlsx/.db files
	DatabasePath string // Optional SQLite reference store

	// Table bindings, resolved once at startup
	MatrixTable         string // Table keyed by KIN
	KinColumn           string // KIN column of the matrix table
	BirthdayTable       string // Table keyed by month/day
	BirthdayDateColumn  string // Month/day column of the birthday table
	BirthdayLabelColumn string // Label column of the birthday table

	// Authentication
	APIKey string // API key for /api/v1 endpoints (optional outside production)

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default table bindings
const (
	DefaultMatrixTable         = "matrix"
	DefaultKinColumn           = "KIN"
	DefaultBirthdayTable       = "maya_birthday"
	DefaultBirthdayDateColumn  = "國曆月日"
	DefaultBirthdayLabelColumn = "瑪雅生日"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	// This is a no-op in production where env vars are set directly
	_ = godotenv.Load()

	cfg := &Config{}

	// Server settings
	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	// Reference data
	cfg.DataDir = getEnv("DATA_DIR", "./data")
	cfg.DatabasePath = getEnv("DATABASE_PATH", "")

	// Table bindings
	cfg.MatrixTable = getEnv("MATRIX_TABLE", DefaultMatrixTable)
	cfg.KinColumn = getEnv("KIN_COLUMN", DefaultKinColumn)
	cfg.BirthdayTable = getEnv("BIRTHDAY_TABLE", DefaultBirthdayTable)
	cfg.BirthdayDateColumn = getEnv("BIRTHDAY_DATE_COLUMN", DefaultBirthdayDateColumn)
	cfg.BirthdayLabelColumn = getEnv("BIRTHDAY_LABEL_COLUMN", DefaultBirthdayLabelColumn)

	// Authentication
	cfg.APIKey = getEnv("API_KEY", "")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	// Validate port range
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	// Validate environment
	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	// At least one reference data source
	if c.DataDir == "" && c.DatabasePath == "" {
		errs = append(errs, errors.New("DATA_DIR or DATABASE_PATH is required"))
	}

	// Table bindings must all be named
	bindings := []struct{ key, value string }{
		{"MATRIX_TABLE", c.MatrixTable},
		{"KIN_COLUMN", c.KinColumn},
		{"BIRTHDAY_TABLE", c.BirthdayTable},
		{"BIRTHDAY_DATE_COLUMN", c.BirthdayDateColumn},
		{"BIRTHDAY_LABEL_COLUMN", c.BirthdayLabelColumn},
	}
	for _, b := range bindings {
		if b.value == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", b.key))
		}
	}

	// API key is required in production
	if c.IsProduction() && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	// Validate log level
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	// Validate log format
	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
