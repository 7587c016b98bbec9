// Package config defines environment variable keys for configuration.
package config

//nolint:gosec // Environment variable keys are not credentials.
const (
	// Server
	EnvPort            = "FAQBOT_PORT"
	EnvLogLevel        = "FAQBOT_LOG_LEVEL"
	EnvShutdownTimeout = "FAQBOT_SHUTDOWN_TIMEOUT"

	// Data
	EnvDataDir = "FAQBOT_DATA_DIR"

	// Resolver
	EnvHistoryScanLimit = "FAQBOT_HISTORY_SCAN_LIMIT"

	// Consultation logging
	EnvConsultationAction = "FAQBOT_CONSULTATION_ACTION"

	// LLM fallback
	EnvLLMAPIKey  = "FAQBOT_LLM_API_KEY"
	EnvLLMBaseURL = "FAQBOT_LLM_BASE_URL"
	EnvLLMModel   = "FAQBOT_LLM_MODEL"
	EnvLLMTimeout = "FAQBOT_LLM_TIMEOUT"

	// Metrics
	EnvMetricsUsername = "FAQBOT_METRICS_USERNAME"
	EnvMetricsPassword = "FAQBOT_METRICS_PASSWORD"

	// Sentry
	EnvSentryDSN         = "FAQBOT_SENTRY_DSN"
	EnvSentryEnvironment = "FAQBOT_SENTRY_ENVIRONMENT"
)
