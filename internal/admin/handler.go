// Package admin exposes the knowledge-base management endpoints: CRUD over
// processes, categories, and FAQ links, plus the consultation analytics feed
// for the dashboard.
package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unidept/faqbot-go/internal/faqerrors"
	"github.com/unidept/faqbot-go/internal/logger"
	"github.com/unidept/faqbot-go/internal/metrics"
	"github.com/unidept/faqbot-go/internal/storage"
)

// Store is the write-side storage surface the admin endpoints manage.
type Store interface {
	storage.ProcessRepository
	storage.CategoryRepository
	storage.FaqLinkRepository
	CountConsultationsByFaqLink(ctx context.Context, action string) ([]storage.ConsultationCount, error)
}

// Handler handles the admin endpoints.
type Handler struct {
	store   Store
	action  string // consultation action the analytics feed counts
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// HandlerConfig holds configuration for creating a new Handler.
type HandlerConfig struct {
	Store              Store
	ConsultationAction string
	Metrics            *metrics.Metrics
	Logger             *logger.Logger
}

// NewHandler creates a new admin handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		store:   cfg.Store,
		action:  cfg.ConsultationAction,
		metrics: cfg.Metrics,
		logger:  cfg.Logger.WithModule("admin"),
	}
}

// Register mounts the admin routes on the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/processes", h.CreateProcess)
	rg.GET("/processes/:id", h.GetProcess)
	rg.PUT("/processes/:id", h.UpdateProcess)
	rg.PATCH("/processes/:id/active", h.SetProcessActive)

	rg.POST("/categories", h.CreateCategory)
	rg.GET("/categories/:id", h.GetCategory)
	rg.PUT("/categories/:id", h.UpdateCategory)
	rg.PATCH("/categories/:id/active", h.SetCategoryActive)

	rg.POST("/faq-links", h.CreateFaqLink)
	rg.GET("/faq-links/:id", h.GetFaqLink)
	rg.PUT("/faq-links/:id", h.UpdateFaqLink)
	rg.PATCH("/faq-links/:id/active", h.SetFaqLinkActive)

	rg.GET("/analytics/consultations", h.ConsultationCounts)
}

type entityRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type faqLinkRequest struct {
	ProcessID  int64  `json:"process_id" binding:"required"`
	CategoryID int64  `json:"category_id" binding:"required"`
	Response   string `json:"response" binding:"required"`
}

type responseRequest struct {
	Response string `json:"response" binding:"required"`
}

type activeRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// CreateProcess handles POST /processes.
func (h *Handler) CreateProcess(c *gin.Context) {
	var req entityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	p, err := h.store.CreateProcess(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.countWrite("process", "create")
	c.JSON(http.StatusCreated, p)
}

// GetProcess handles GET /processes/:id.
func (h *Handler) GetProcess(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	p, err := h.store.GetProcessByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProcess handles PUT /processes/:id.
func (h *Handler) UpdateProcess(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req entityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.store.UpdateProcess(c.Request.Context(), id, req.Name, req.Description); err != nil {
		h.writeError(c, err)
		return
	}
	h.countWrite("process", "update")
	c.Status(http.StatusNoContent)
}

// SetProcessActive handles PATCH /processes/:id/active.
func (h *Handler) SetProcessActive(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req activeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.store.SetProcessActive(c.Request.Context(), id, *req.Active); err != nil {
		h.writeError(c, err)
		return
	}
	h.countWrite("process", "toggle")
	c.Status(http.StatusNoContent)
}

// CreateCategory handles POST /categories.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req entityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	cat, err := h.store.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.countWrite("category", "create")
	c.JSON(http.StatusCreated, cat)
}

// GetCategory handles GET /categories/:id.
func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	cat, err := h.store.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// UpdateCategory handles PUT /categories/:id.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req entityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.store.UpdateCategory(c.Request.Context(), id, req.Name, req.Description); err != nil {
		h.writeError(c, err)
		return
	}
	h.countWrite("category", "update")
	c.Status(http.StatusNoContent)
}

// SetCategoryActive handles PATCH /categories/:id/active.
func (h *Handler) SetCategoryActive(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req activeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.store.SetCategoryActive(c.Request.Context(), id, *req.Active); err != nil {
		h.writeError(c, err)
		return
	}
	h.countWrite("category", "toggle")
	c.Status(http.StatusNoContent)
}

// CreateFaqLink handles POST /faq-links.
func (h *Handler) CreateFaqLink(c *gin.Context) {
	var req faqLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	link, err := h.store.CreateFaqLink(c.Request.Context(), req.ProcessID, req.CategoryID, req.Response)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.countWrite("faq_link", "create")
	c.JSON(http.StatusCreated, link)
}

// GetFaqLink handles GET /faq-links/:id.
func (h *Handler) GetFaqLink(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	link, err := h.store.GetFaqLinkByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// UpdateFaqLink handles PUT /faq-links/:id.
func (h *Handler) UpdateFaqLink(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req responseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.store.UpdateFaqLinkResponse(c.Request.Context(), id, req.Response); err != nil {
		h.writeError(c, err)
		return
	}
	h.countWrite("faq_link", "update")
	c.Status(http.StatusNoContent)
}

// SetFaqLinkActive handles PATCH /faq-links/:id/active.
func (h *Handler) SetFaqLinkActive(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req activeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.store.SetFaqLinkActive(c.Request.Context(), id, *req.Active); err != nil {
		h.writeError(c, err)
		return
	}
	h.countWrite("faq_link", "toggle")
	c.Status(http.StatusNoContent)
}

// ConsultationCounts handles GET /analytics/consultations.
func (h *Handler) ConsultationCounts(c *gin.Context) {
	counts, err := h.store.CountConsultationsByFaqLink(c.Request.Context(), h.action)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultations": counts})
}

// pathID parses the :id path parameter, answering 400 itself on failure.
func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		h.countError("validation")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	h.logger.WithError(err).Warn("Invalid admin request body")
	h.countError("validation")
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// writeError maps storage errors onto HTTP statuses: validation failures to
// 400, missing records to 404, duplicate active links to 409, everything
// else to 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	var ve *faqerrors.ValidationError
	switch {
	case errors.As(err, &ve):
		h.countError("validation")
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, faqerrors.ErrNotFound):
		h.countError("not_found")
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, faqerrors.ErrDuplicateFaqLink):
		h.countError("conflict")
		c.JSON(http.StatusConflict, gin.H{"error": faqerrors.ErrDuplicateFaqLink.Error()})
	default:
		h.logger.WithError(err).Error("Admin storage operation failed")
		h.countError("internal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) countWrite(entity, action string) {
	if h.metrics != nil {
		h.metrics.KnowledgeWritesTotal.WithLabelValues(entity, action).Inc()
	}
}

func (h *Handler) countError(errorType string) {
	if h.metrics != nil {
		h.metrics.HTTPErrorsTotal.WithLabelValues(errorType, "admin").Inc()
	}
}
