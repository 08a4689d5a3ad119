// Package httpapi exposes the chat and admin HTTP endpoints on gin.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pergunte-russel/russel-bot-go/internal/bot"
	apperrors "github.com/pergunte-russel/russel-bot-go/internal/errors"
	"github.com/pergunte-russel/russel-bot-go/internal/logger"
	"github.com/pergunte-russel/russel-bot-go/internal/metrics"
	"github.com/pergunte-russel/russel-bot-go/internal/ratelimit"
	"github.com/pergunte-russel/russel-bot-go/internal/sentry"
	"github.com/pergunte-russel/russel-bot-go/internal/storage"
)

// AdminUsername is the basic auth username for the admin API.
const AdminUsername = "admin"

// Handler serves the public chat API and the admin CRUD API.
type Handler struct {
	engine        *bot.Engine
	conversations *bot.Conversations
	catalog       storage.CatalogStore
	synonyms      storage.SynonymStore
	limiter       *ratelimit.SessionLimiter
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

// HandlerConfig holds dependencies for creating a Handler.
type HandlerConfig struct {
	Engine        *bot.Engine
	Conversations *bot.Conversations
	Catalog       storage.CatalogStore
	Synonyms      storage.SynonymStore
	Limiter       *ratelimit.SessionLimiter
	Metrics       *metrics.Metrics
	Logger        *logger.Logger
}

// NewHandler creates an API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		engine:        cfg.Engine,
		conversations: cfg.Conversations,
		catalog:       cfg.Catalog,
		synonyms:      cfg.Synonyms,
		limiter:       cfg.Limiter,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger.WithModule("httpapi"),
	}
}

// Register mounts the chat endpoints under /api and the admin CRUD
// endpoints under /admin/api behind basic auth.
func (h *Handler) Register(router *gin.Engine, adminPassword string) {
	api := router.Group("/api")
	api.POST("/chat", h.chat)
	api.GET("/history/:session", h.history)
	api.DELETE("/history/:session", h.clearHistory)

	admin := router.Group("/admin/api", gin.BasicAuth(gin.Accounts{
		AdminUsername: adminPassword,
	}))
	admin.GET("/entries", h.listEntries)
	admin.GET("/entries/search", h.searchEntries)
	admin.GET("/entries/:id", h.getEntry)
	admin.POST("/entries", h.createEntry)
	admin.PUT("/entries/:id", h.updateEntry)
	admin.DELETE("/entries/:id", h.deleteEntry)

	admin.GET("/synonyms", h.listSynonyms)
	admin.GET("/synonyms/:id", h.getSynonym)
	admin.POST("/synonyms", h.createSynonym)
	admin.PUT("/synonyms/:id", h.updateSynonym)
	admin.DELETE("/synonyms/:id", h.deleteSynonym)
}

// respondError maps domain errors to HTTP status codes. Unexpected
// errors are logged and reported to error tracking.
func (h *Handler) respondError(c *gin.Context, module string, err error) {
	switch {
	case apperrors.IsInvalidInput(err):
		h.metrics.RecordHTTPError("bad_request", module)
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.GetUserMessage(err)})
	case apperrors.IsNotFound(err):
		h.metrics.RecordHTTPError("not_found", module)
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case apperrors.IsRateLimitExceeded(err):
		h.metrics.RecordHTTPError("rate_limited", module)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many messages, slow down"})
	default:
		h.metrics.RecordHTTPError("internal", module)
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		sentry.CaptureExceptionWithContext(c.Request.Context(), err)
		message := "internal error"
		if wrapped, ok := apperrors.AsWrapped(err); ok {
			message = wrapped.UserMessage
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
