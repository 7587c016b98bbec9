// Package chat exposes the dynamic chatbot HTTP endpoint: it binds the
// request payload, tolerates malformed history, and translates resolver
// results into the wire response.
package chat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unidept/faqbot-go/internal/logger"
	"github.com/unidept/faqbot-go/internal/metrics"
	"github.com/unidept/faqbot-go/internal/resolver"
)

// Responder resolves a free-text message into an answer payload.
type Responder interface {
	GetResponse(ctx context.Context, message string, history []resolver.ConversationTurn, userID *string) (*resolver.Result, error)
}

// Handler handles the dynamic chatbot endpoint.
type Handler struct {
	responder Responder
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// HandlerConfig holds configuration for creating a new Handler.
type HandlerConfig struct {
	Responder Responder
	Metrics   *metrics.Metrics
	Logger    *logger.Logger
}

// NewHandler creates a new chat handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		responder: cfg.Responder,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.WithModule("chat"),
	}
}

type chatRequest struct {
	Message string `json:"message"`
	// History is decoded leniently: anything that is not a turn array is
	// treated as no history rather than failing the request.
	History json.RawMessage `json:"history,omitempty"`
	UserID  *string         `json:"userId,omitempty"`
}

type chatResponse struct {
	Response         string  `json:"response"`
	Source           *string `json:"source"`
	Score            int     `json:"score"`
	NeedsMoreContext bool    `json:"needsMoreContext"`
}

// Handle is the Gin handler for POST /api/chatbot/dynamic.
func (h *Handler) Handle(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid chat request body")
		if h.metrics != nil {
			h.metrics.HTTPErrorsTotal.WithLabelValues("validation", "chat").Inc()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.responder.GetResponse(c.Request.Context(), req.Message, parseHistory(req.History), req.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve chat message")
		if h.metrics != nil {
			h.metrics.HTTPErrorsTotal.WithLabelValues("internal", "chat").Inc()
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	resp := chatResponse{
		Response:         result.ResponseHTML,
		Score:            result.Score,
		NeedsMoreContext: result.NeedsMoreContext,
	}
	if result.SourceLabel != "" {
		resp.Source = &result.SourceLabel
	}
	c.JSON(http.StatusOK, resp)
}

// parseHistory coerces the raw history field into conversation turns. A
// missing, null, or malformed history yields nil; the history-inference
// convenience must never break the primary path.
func parseHistory(raw json.RawMessage) []resolver.ConversationTurn {
	if len(raw) == 0 {
		return nil
	}
	var turns []resolver.ConversationTurn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil
	}
	return turns
}
