package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/pergunte-russel/russel-bot-go/internal/errors"
	"github.com/pergunte-russel/russel-bot-go/internal/match"
	"github.com/pergunte-russel/russel-bot-go/internal/storage"
)

type entryRequest struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords"`
}

func (r *entryRequest) validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return apperrors.NewValidationError("question", "cannot be empty")
	}
	if strings.TrimSpace(r.Answer) == "" {
		return apperrors.NewValidationError("answer", "cannot be empty")
	}
	return nil
}

type synonymRequest struct {
	Synonym   string `json:"synonym"`
	Canonical string `json:"canonical"`
}

func (r *synonymRequest) validate() error {
	if strings.TrimSpace(r.Synonym) == "" {
		return apperrors.NewValidationError("synonym", "cannot be empty")
	}
	if strings.TrimSpace(r.Canonical) == "" {
		return apperrors.NewValidationError("canonical", "cannot be empty")
	}
	return nil
}

func (h *Handler) listEntries(c *gin.Context) {
	entries, err := h.catalog.ListEntries(c.Request.Context())
	if err != nil {
		h.respondError(c, "admin", err)
		return
	}
	if entries == nil {
		entries = []storage.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) searchEntries(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		h.respondError(c, "admin", apperrors.NewValidationError("q", "cannot be empty"))
		return
	}

	entries, err := h.catalog.SearchEntries(c.Request.Context(), term)
	if err != nil {
		h.respondError(c, "admin", err)
		return
	}
	if entries == nil {
		entries = []storage.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) getEntry(c *gin.Context) {
	entry, err := h.catalog.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "admin", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) createEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "admin", apperrors.NewValidationError("body", "invalid JSON"))
		return
	}
	if err := req.validate(); err != nil {
		h.respondError(c, "admin", err)
		return
	}

	entry := &storage.Entry{
		Question: strings.TrimSpace(req.Question),
		Answer:   strings.TrimSpace(req.Answer),
		Keywords: req.Keywords,
	}
	if err := h.catalog.CreateEntry(c.Request.Context(), entry); err != nil {
		h.respondError(c, "admin", err)
		return
	}

	h.reindexSuggestions(c)
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) updateEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "admin", apperrors.NewValidationError("body", "invalid JSON"))
		return
	}
	if err := req.validate(); err != nil {
		h.respondError(c, "admin", err)
		return
	}

	entry := &storage.Entry{
		ID:       c.Param("id"),
		Question: strings.TrimSpace(req.Question),
		Answer:   strings.TrimSpace(req.Answer),
		Keywords: req.Keywords,
	}
	if err := h.catalog.UpdateEntry(c.Request.Context(), entry); err != nil {
		h.respondError(c, "admin", err)
		return
	}

	updated, err := h.catalog.GetEntry(c.Request.Context(), entry.ID)
	if err != nil {
		h.respondError(c, "admin", err)
		return
	}

	h.reindexSuggestions(c)
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteEntry(c *gin.Context) {
	if err := h.catalog.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "admin", err)
		return
	}

	h.reindexSuggestions(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) listSynonyms(c *gin.Context) {
	synonyms, err := h.synonyms.ListSynonyms(c.Request.Context())
	if err != nil {
		h.respondError(c, "admin", err)
		return
	}
	if synonyms == nil {
		synonyms = []storage.Synonym{}
	}
	c.JSON(http.StatusOK, gin.H{"synonyms": synonyms})
}

func (h *Handler) getSynonym(c *gin.Context) {
	syn, err := h.synonyms.GetSynonym(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "admin", err)
		return
	}
	c.JSON(http.StatusOK, syn)
}

func (h *Handler) createSynonym(c *gin.Context) {
	var req synonymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "admin", apperrors.NewValidationError("body", "invalid JSON"))
		return
	}
	if err := req.validate(); err != nil {
		h.respondError(c, "admin", err)
		return
	}

	syn := &storage.Synonym{
		Synonym:   strings.TrimSpace(req.Synonym),
		Canonical: strings.TrimSpace(req.Canonical),
	}
	if err := h.synonyms.CreateSynonym(c.Request.Context(), syn); err != nil {
		h.respondError(c, "admin", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"synonym":         syn,
		"overlap_warning": h.overlapWarnings(c),
	})
}

func (h *Handler) updateSynonym(c *gin.Context) {
	var req synonymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "admin", apperrors.NewValidationError("body", "invalid JSON"))
		return
	}
	if err := req.validate(); err != nil {
		h.respondError(c, "admin", err)
		return
	}

	syn := &storage.Synonym{
		ID:        c.Param("id"),
		Synonym:   strings.TrimSpace(req.Synonym),
		Canonical: strings.TrimSpace(req.Canonical),
	}
	if err := h.synonyms.UpdateSynonym(c.Request.Context(), syn); err != nil {
		h.respondError(c, "admin", err)
		return
	}

	updated, err := h.synonyms.GetSynonym(c.Request.Context(), syn.ID)
	if err != nil {
		h.respondError(c, "admin", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"synonym":         updated,
		"overlap_warning": h.overlapWarnings(c),
	})
}

func (h *Handler) deleteSynonym(c *gin.Context) {
	if err := h.synonyms.DeleteSynonym(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "admin", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// overlapWarnings flags order-dependent synonym rules after a write.
// Overlaps are allowed, so warning collection failures are logged only.
func (h *Handler) overlapWarnings(c *gin.Context) []string {
	synonyms, err := h.synonyms.ListSynonyms(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Failed to check synonym overlaps")
		return nil
	}

	rules := make([]match.Rule, len(synonyms))
	for i, s := range synonyms {
		rules[i] = match.Rule{Synonym: s.Synonym, Canonical: s.Canonical}
	}
	return match.Overlaps(rules)
}

// reindexSuggestions rebuilds the suggestion index after catalog writes.
// The write already succeeded, so failures are logged, not returned.
func (h *Handler) reindexSuggestions(c *gin.Context) {
	if err := h.engine.RebuildSuggestions(c.Request.Context()); err != nil {
		h.logger.WithError(err).Warn("Failed to rebuild suggestion index")
	}
}
