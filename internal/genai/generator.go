// Package genai provides the external text-generation fallback used when
// the rule-based resolver finds no match. One OpenAI-compatible provider is
// supported; the feature is disabled entirely when no API key is configured.
package genai

import (
	"context"
	"time"
)

// Generator produces a best-effort natural-language answer for a question
// the knowledge base could not resolve.
type Generator interface {
	// Generate answers the question, grounded on a short plain-text summary
	// of the knowledge base. Returns an empty string when the model
	// produced nothing usable.
	Generate(ctx context.Context, question, kbContext string) (string, error)
	// IsEnabled returns true if the generator is properly initialized.
	IsEnabled() bool
	// Close releases any resources held by the generator.
	Close() error
}

// Config holds configuration for the fallback generator.
type Config struct {
	// APIKey is the provider API key. Empty disables the feature.
	APIKey string

	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	// Empty uses the default OpenAI endpoint.
	BaseURL string

	// Model is the model name. Empty uses DefaultModel.
	Model string

	// Timeout bounds a single generation call.
	Timeout time.Duration
}

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// DefaultTimeout bounds generation calls when no timeout is configured.
const DefaultTimeout = 15 * time.Second
