// Package main provides the FAQ chatbot server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unidept/faqbot-go/internal/admin"
	"github.com/unidept/faqbot-go/internal/buildinfo"
	"github.com/unidept/faqbot-go/internal/chat"
	"github.com/unidept/faqbot-go/internal/config"
	"github.com/unidept/faqbot-go/internal/storage"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, cfg *config.Config, chatHandler *chat.Handler, adminHandler *admin.Handler, db *storage.DB, registry *prometheus.Registry, chatLimit gin.HandlerFunc) {
	// Root endpoint - service identity
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "faqbot",
			"version": buildinfo.Version,
		})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Health check endpoints
	// Liveness Probe - checks if the application is alive (minimal check)
	// This should NEVER check dependencies - only that the process is running
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness Probe - checks if the application is ready to serve traffic
	readyHandler := func(c *gin.Context) {
		if err := db.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		// Knowledge-base visibility: how much the resolver can answer about.
		processes, _ := db.ListActiveProcesses(c.Request.Context())
		categories, _ := db.ListActiveCategories(c.Request.Context())
		links, _ := db.ListActiveFaqLinks(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"knowledge": gin.H{
				"processes":  len(processes),
				"categories": len(categories),
				"faq_links":  len(links),
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Dynamic chatbot endpoint, throttled per client
	router.POST("/api/chatbot/dynamic", chatLimit, chatHandler.Handle)

	// Knowledge-base management and analytics
	adminHandler.Register(router.Group("/api/admin"))

	// Prometheus metrics endpoint (Basic Auth when a password is configured)
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
