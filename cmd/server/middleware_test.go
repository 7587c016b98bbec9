package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/unidept/faqbot-go/internal/logger"
	"github.com/unidept/faqbot-go/internal/metrics"
	"github.com/unidept/faqbot-go/internal/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(securityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
}

func TestRequestIDMiddleware_Generated(t *testing.T) {
	router := gin.New()
	router.Use(requestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDMiddleware_Echoed(t *testing.T) {
	router := gin.New()
	router.Use(requestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewPerKey(ratelimit.PerKeyConfig{MaxTokens: 2, RefillRate: 0.001})
	defer limiter.Stop()
	m := metrics.New(prometheus.NewRegistry())

	router := gin.New()
	router.POST("/api/chatbot/dynamic", rateLimitMiddleware(limiter, m), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for i := range 2 {
		req := httptest.NewRequest(http.MethodPost, "/api/chatbot/dynamic", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d within burst", i+1)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/dynamic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLoggingMiddlewareRecordsMetrics(t *testing.T) {
	log := logger.NewWithWriter("error", io.Discard)
	m := metrics.New(prometheus.NewRegistry())

	router := gin.New()
	router.Use(loggingMiddleware(log, m))
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	counter, err := m.HTTPRequestsTotal.GetMetricWithLabelValues("/healthz", "200")
	assert.NoError(t, err)
	assert.NotNil(t, counter)
}
