// Package main provides the FAQ chatbot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/unidept/faqbot-go/internal/admin"
	"github.com/unidept/faqbot-go/internal/buildinfo"
	"github.com/unidept/faqbot-go/internal/chat"
	"github.com/unidept/faqbot-go/internal/config"
	"github.com/unidept/faqbot-go/internal/genai"
	"github.com/unidept/faqbot-go/internal/logger"
	"github.com/unidept/faqbot-go/internal/metrics"
	"github.com/unidept/faqbot-go/internal/ratelimit"
	"github.com/unidept/faqbot-go/internal/resolver"
	"github.com/unidept/faqbot-go/internal/sentry"
	"github.com/unidept/faqbot-go/internal/storage"
)

// HTTP server timeouts. The chat endpoint is small JSON in, small JSON out;
// the read/write timeouts only need to cover the LLM fallback worst case.
const (
	httpReadTimeout  = 10 * time.Second
	httpWriteTimeout = 30 * time.Second
	httpIdleTimeout  = 120 * time.Second

	sentryFlushTimeout = 2 * time.Second
)

// Per-client throttling for the chat endpoint: a short burst, then one
// request per second per IP.
const (
	chatRateBurst  = 5.0
	chatRateRefill = 1.0
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.WithField("version", buildinfo.Version).Info("Starting FAQ chatbot server")

	// Initialize Sentry (no-op without a DSN)
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
	}); err != nil {
		log.WithError(err).Error("Failed to initialize Sentry")
		os.Exit(1)
	}
	if sentry.IsEnabled() {
		defer sentry.Flush(sentryFlushTimeout)
		log.Info("Sentry error tracking enabled")
	}

	// Connect to database
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		log.WithError(err).Error("Failed to create data directory")
		os.Exit(1)
	}
	db, err := storage.New(context.Background(), cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create fallback text generator (optional - requires LLM API key)
	generator, err := genai.NewGenerator(genai.Config{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		log.WithError(err).Error("Failed to create text generator")
		os.Exit(1)
	}
	if generator != nil {
		log.Info("LLM fallback enabled")
	} else {
		log.Info("LLM API key not configured, fallback disabled")
	}

	// Consultation recorder with the action name resolved once at startup
	consultationLog := storage.NewConsultationLog(db, cfg.ConsultationAction)

	// Create the resolution service
	service := resolver.NewService(resolver.ServiceConfig{
		KnowledgeBase: db,
		Consultations: consultationLog,
		Generator:     generator,
		Metrics:       m,
		Logger:        log,
		HistoryLimit:  cfg.HistoryScanLimit,
	})

	// Create HTTP handlers
	chatHandler := chat.NewHandler(chat.HandlerConfig{
		Responder: service,
		Metrics:   m,
		Logger:    log,
	})
	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Store:              db,
		ConsultationAction: cfg.ConsultationAction,
		Metrics:            m,
		Logger:             log,
	})

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log, m))

	// Per-client rate limiting for the chat endpoint
	chatLimiter := ratelimit.NewPerKey(ratelimit.PerKeyConfig{
		MaxTokens:  chatRateBurst,
		RefillRate: chatRateRefill,
	})
	defer chatLimiter.Stop()

	// Setup routes
	setupRoutes(router, cfg, chatHandler, adminHandler, db, registry, rateLimitMiddleware(chatLimiter, m))

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: httpWriteTimeout,
		IdleTimeout:  httpIdleTimeout,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		log.WithError(err).Error("Failed to start server")
		os.Exit(1)
	case <-quit:
	}

	log.Info("Shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Close the generator (if enabled)
	if generator != nil {
		if err := generator.Close(); err != nil {
			log.WithError(err).Error("Failed to close text generator")
		}
	}

	// Close database connection
	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	log.Info("Server stopped")
}
