// Package metrics defines the Prometheus metrics for the FAQ chatbot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Resolver metrics
	ResolveRequestsTotal   *prometheus.CounterVec
	ResolveDurationSeconds prometheus.Histogram

	// Consultation logging metrics
	ConsultationsLoggedTotal prometheus.Counter

	// LLM fallback metrics
	FallbackRequestsTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPDurationSeconds    *prometheus.HistogramVec
	HTTPErrorsTotal        *prometheus.CounterVec
	KnowledgeWritesTotal   *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		ResolveRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "faqbot_resolve_requests_total",
				Help: "Total number of resolution requests by outcome",
			},
			[]string{"outcome"}, // outcome: rejected, greeting, multi, single, clarification, fallback_llm, none
		),

		ResolveDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "faqbot_resolve_duration_seconds",
				Help:    "Resolution processing duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
		),

		ConsultationsLoggedTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "faqbot_consultations_logged_total",
				Help: "Total number of consultation events recorded",
			},
		),

		FallbackRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "faqbot_fallback_requests_total",
				Help: "Total number of LLM fallback attempts by status",
			},
			[]string{"status"}, // status: success, empty, error
		),

		HTTPRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "faqbot_http_requests_total",
				Help: "Total HTTP requests by path and status class",
			},
			[]string{"path", "status"},
		),

		HTTPDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "faqbot_http_duration_seconds",
				Help:    "HTTP request duration in seconds by path",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"path"},
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "faqbot_http_errors_total",
				Help: "Total HTTP errors by type and module",
			},
			[]string{"error_type", "module"}, // error_type: validation, not_found, conflict, internal
		),

		KnowledgeWritesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "faqbot_knowledge_writes_total",
				Help: "Total knowledge-base write operations by entity and action",
			},
			[]string{"entity", "action"}, // entity: process, category, faq_link; action: create, update, toggle
		),
	}
}
