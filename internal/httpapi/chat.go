package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/pergunte-russel/russel-bot-go/internal/errors"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID   string   `json:"session_id"`
	Answer      string   `json:"answer"`
	Matched     bool     `json:"matched"`
	Score       int      `json:"score"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// chat answers one question. A missing session_id starts a new session;
// the assigned id is returned so the client can continue it.
func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordHTTPError("bad_request", "chat")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		h.metrics.RecordHTTPError("bad_request", "chat")
		c.JSON(http.StatusBadRequest, gin.H{"error": "message cannot be empty"})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if !h.limiter.Allow(sessionID) {
		h.logger.WithField("session_id", sessionID).Warn("Chat rate limit exceeded")
		h.respondError(c, "chat", apperrors.ErrRateLimitExceeded)
		return
	}

	reply, err := h.engine.Ask(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		h.respondError(c, "chat", err)
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		SessionID:   sessionID,
		Answer:      reply.Answer,
		Matched:     reply.Matched,
		Score:       reply.Score,
		Suggestions: reply.Suggestions,
	})
}

// history returns the session's conversation in order.
func (h *Handler) history(c *gin.Context) {
	sessionID := c.Param("session")

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"messages":   h.conversations.History(sessionID),
	})
}

// clearHistory drops the session's conversation ("limpar conversa").
func (h *Handler) clearHistory(c *gin.Context) {
	h.conversations.Clear(c.Param("session"))
	c.Status(http.StatusNoContent)
}
