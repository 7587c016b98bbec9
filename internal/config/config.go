// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the server, resolver, consultation logging, and the LLM fallback.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir string // Data directory for the SQLite database

	// Resolver Configuration
	HistoryScanLimit int // Maximum conversation turns scanned backward for context

	// Consultation Logging
	// The log action name used for question counting on the dashboard.
	// Resolved once at startup and injected into the consultation recorder.
	ConsultationAction string

	// LLM Fallback Configuration (disabled when APIKey is empty)
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Sentry (disabled when DSN is empty)
	SentryDSN         string
	SentryEnvironment string
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "8080"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),

		DataDir: getEnv(EnvDataDir, "data"),

		HistoryScanLimit: getIntEnv(EnvHistoryScanLimit, 10),

		ConsultationAction: getEnv(EnvConsultationAction, "chatbot_question"),

		LLMAPIKey:  getEnv(EnvLLMAPIKey, ""),
		LLMBaseURL: getEnv(EnvLLMBaseURL, ""),
		LLMModel:   getEnv(EnvLLMModel, ""),
		LLMTimeout: getDurationEnv(EnvLLMTimeout, 15*time.Second),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration values are consistent
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.HistoryScanLimit < 1 {
		errs = append(errs, errors.New(EnvHistoryScanLimit+" must be at least 1"))
	}
	if c.ConsultationAction == "" {
		errs = append(errs, errors.New(EnvConsultationAction+" is required"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New(EnvShutdownTimeout+" must be positive"))
	}

	return errors.Join(errs...)
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "faqbot.db")
}

// LLMEnabled reports whether the fallback text generator is configured
func (c *Config) LLMEnabled() bool {
	return c.LLMAPIKey != ""
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv returns the environment variable as int or a default
func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getDurationEnv returns the environment variable as duration or a default.
// Accepts Go duration strings ("30s", "5m").
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
