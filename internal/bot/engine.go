// Package bot implements the FAQ chat engine. It glues the catalog and
// synonym stores to the fuzzy matcher and produces a reply for each
// incoming question.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/pergunte-russel/russel-bot-go/internal/errors"
	"github.com/pergunte-russel/russel-bot-go/internal/logger"
	"github.com/pergunte-russel/russel-bot-go/internal/match"
	"github.com/pergunte-russel/russel-bot-go/internal/metrics"
	"github.com/pergunte-russel/russel-bot-go/internal/storage"
	"github.com/pergunte-russel/russel-bot-go/internal/suggest"
)

// Reply is the engine's answer to one question.
type Reply struct {
	Answer      string   `json:"answer"`
	Matched     bool     `json:"matched"`
	Score       int      `json:"score"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// EngineConfig holds dependencies for creating an Engine.
type EngineConfig struct {
	Catalog        storage.CatalogStore
	Synonyms       storage.SynonymStore
	Matcher        *match.Matcher
	Suggestions    *suggest.Index
	Conversations  *Conversations
	Metrics        *metrics.Metrics
	Logger         *logger.Logger
	Fallback       string
	MaxSuggestions int
}

// Engine answers questions from the catalog. It holds no per-query
// mutable state; entries and synonyms are loaded fresh on every call so
// admin edits take effect immediately.
type Engine struct {
	catalog        storage.CatalogStore
	synonyms       storage.SynonymStore
	matcher        *match.Matcher
	suggestions    *suggest.Index
	conversations  *Conversations
	metrics        *metrics.Metrics
	logger         *logger.Logger
	wrap           *apperrors.ErrorWrapper
	fallback       string
	maxSuggestions int
}

// NewEngine creates a chat engine.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		catalog:        cfg.Catalog,
		synonyms:       cfg.Synonyms,
		matcher:        cfg.Matcher,
		suggestions:    cfg.Suggestions,
		conversations:  cfg.Conversations,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger.WithModule("bot"),
		wrap:           apperrors.NewWrapper("bot", "ask"),
		fallback:       cfg.Fallback,
		maxSuggestions: cfg.MaxSuggestions,
	}
}

// Ask answers a single question. The matching pipeline is: normalize
// and substitute synonyms, scan questions, then fall back to keyword
// scanning, then to the configured fallback message with "did you mean"
// suggestions. The exchange is appended to the session's conversation.
func (e *Engine) Ask(ctx context.Context, sessionID, text string) (*Reply, error) {
	start := time.Now()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &apperrors.ValidationError{Field: "message", Message: "cannot be empty"}
	}

	entries, rules, err := e.loadCatalog(ctx)
	if err != nil {
		e.metrics.RecordQuery("error", time.Since(start).Seconds())
		return nil, e.wrap.Wrap(err, "não foi possível consultar o catálogo agora, tente novamente")
	}

	reply := e.answer(text, entries, rules, start)

	if e.conversations != nil {
		e.conversations.Append(sessionID, RoleUser, text)
		e.conversations.Append(sessionID, RoleBot, reply.Answer)
	}

	return reply, nil
}

func (e *Engine) answer(text string, entries []match.Entry, rules []match.Rule, start time.Time) *Reply {
	result := e.matcher.FindBestAnswer(text, entries, rules)
	if result.Matched {
		e.metrics.RecordQuery("matched", time.Since(start).Seconds())
		e.metrics.RecordMatchScore("question", result.Score)
		e.logger.WithFields(map[string]any{
			"entry_id": result.Entry.ID,
			"score":    result.Score,
		}).Debug("Question matched")
		return &Reply{Answer: result.Entry.Answer, Matched: true, Score: result.Score}
	}

	kwResult := e.matcher.FindByKeywords(text, entries, rules)
	if kwResult.Matched {
		e.metrics.RecordQuery("keyword_matched", time.Since(start).Seconds())
		e.metrics.RecordMatchScore("keyword", kwResult.Score)
		e.logger.WithFields(map[string]any{
			"entry_id": kwResult.Entry.ID,
			"score":    kwResult.Score,
		}).Debug("Keyword matched")
		return &Reply{Answer: kwResult.Entry.Answer, Matched: true, Score: kwResult.Score}
	}

	e.metrics.RecordQuery("no_match", time.Since(start).Seconds())
	e.metrics.RecordMatchScore("question", result.Score)
	e.logger.WithField("best_score", result.Score).Debug("No match, replying with fallback")

	return &Reply{
		Answer:      e.fallback,
		Score:       result.Score,
		Suggestions: e.suggest(text),
	}
}

// suggest returns "did you mean" questions for an unmatched query.
// Suggestion failures degrade to none, never to an error reply.
func (e *Engine) suggest(text string) []string {
	if e.suggestions == nil || e.maxSuggestions <= 0 {
		return nil
	}

	results, err := e.suggestions.Suggest(text, e.maxSuggestions)
	if err != nil {
		e.metrics.RecordSuggestions("error")
		e.logger.WithError(err).Warn("Suggestion lookup failed")
		return nil
	}
	if len(results) == 0 {
		e.metrics.RecordSuggestions("empty")
		return nil
	}

	e.metrics.RecordSuggestions("hit")
	questions := make([]string, len(results))
	for i, r := range results {
		questions[i] = r.Question
	}
	return questions
}

// loadCatalog reads a consistent view of entries and synonym rules.
func (e *Engine) loadCatalog(ctx context.Context) ([]match.Entry, []match.Rule, error) {
	stored, err := e.catalog.ListEntries(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	synonyms, err := e.synonyms.ListSynonyms(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load synonyms: %w", err)
	}

	entries := make([]match.Entry, len(stored))
	for i, s := range stored {
		entries[i] = match.Entry{
			ID:       s.ID,
			Question: s.Question,
			Answer:   s.Answer,
			Keywords: s.Keywords,
		}
	}

	rules := make([]match.Rule, len(synonyms))
	for i, s := range synonyms {
		rules[i] = match.Rule{Synonym: s.Synonym, Canonical: s.Canonical}
	}

	return entries, rules, nil
}

// RebuildSuggestions reindexes the suggestion corpus from the catalog.
// Called on startup and after catalog changes.
func (e *Engine) RebuildSuggestions(ctx context.Context) error {
	if e.suggestions == nil {
		return nil
	}

	stored, err := e.catalog.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog for suggestions: %w", err)
	}

	docs := make([]suggest.Document, len(stored))
	for i, s := range stored {
		docs[i] = suggest.Document{EntryID: s.ID, Question: s.Question}
	}
	return e.suggestions.Rebuild(docs)
}
