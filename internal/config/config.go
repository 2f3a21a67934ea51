// Package config loads application settings from environment variables
// and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/diagmatrix/go-travel/internal/domain"
)

// Config holds all configuration for the application.
type Config struct {
	// Service configuration
	ServiceName string
	Environment string
	Port        string

	// Database configuration
	DatabaseURL string

	// Routing provider configuration. MapsBaseURL is empty in
	// production; tests point it at a stub server.
	MapsAPIKey  string
	MapsBaseURL string

	// Unit system used when a request does not choose one.
	DefaultUnits domain.UnitSystem

	// OpenTelemetry configuration
	TracingEnabled bool
	OTLPEndpoint   string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables. A .env file is
// honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "go-travel"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		MapsAPIKey:  os.Getenv("MAPS_API_KEY"),
		MapsBaseURL: os.Getenv("MAPS_BASE_URL"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	units := domain.UnitSystem(getEnv("DEFAULT_UNITS", string(domain.UnitsMetric)))
	switch units {
	case domain.UnitsMetric, domain.UnitsImperial:
		cfg.DefaultUnits = units
	default:
		return nil, fmt.Errorf("invalid DEFAULT_UNITS %q: must be %q or %q",
			units, domain.UnitsMetric, domain.UnitsImperial)
	}

	tracing, err := strconv.ParseBool(getEnv("TRACING_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRACING_ENABLED: %w", err)
	}
	cfg.TracingEnabled = tracing

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
