package bot

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pergunte-russel/russel-bot-go/internal/errors"
	"github.com/pergunte-russel/russel-bot-go/internal/logger"
	"github.com/pergunte-russel/russel-bot-go/internal/match"
	"github.com/pergunte-russel/russel-bot-go/internal/metrics"
	"github.com/pergunte-russel/russel-bot-go/internal/storage"
	"github.com/pergunte-russel/russel-bot-go/internal/suggest"
)

func newTestEngine(t *testing.T) (*Engine, *storage.DB) {
	t.Helper()

	db, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()

	entries := []*storage.Entry{
		{Question: "Qual o horário de atendimento?", Answer: "Das 8h às 18h.", Keywords: []string{"horario", "funcionamento"}},
		{Question: "Vocês fazem ultrassom?", Answer: "Sim, fazemos ultrassom."},
		{Question: "Como agendar uma consulta?", Answer: "Pelo telefone ou site.", Keywords: []string{"agendar", "marcar consulta"}},
	}
	for _, e := range entries {
		require.NoError(t, db.CreateEntry(ctx, e))
	}

	synonyms := []*storage.Synonym{
		{Synonym: "usg", Canonical: "ultrassom"},
		{Synonym: "vcs", Canonical: "voces"},
	}
	for _, s := range synonyms {
		require.NoError(t, db.CreateSynonym(ctx, s))
	}

	log := logger.NewWithWriter("error", io.Discard)
	engine := NewEngine(EngineConfig{
		Catalog:        db,
		Synonyms:       db,
		Matcher:        match.NewMatcher(match.PolicyFirstMatch, 70, 50),
		Suggestions:    suggest.NewIndex(log),
		Conversations:  NewConversations(time.Hour),
		Metrics:        metrics.New(prometheus.NewRegistry()),
		Logger:         log,
		Fallback:       "Desculpe, não entendi.",
		MaxSuggestions: 3,
	})
	require.NoError(t, engine.RebuildSuggestions(ctx))

	return engine, db
}

func TestEngineAskMatchesQuestion(t *testing.T) {
	engine, _ := newTestEngine(t)

	reply, err := engine.Ask(context.Background(), "s1", "Qual o horário de atendimento?")
	require.NoError(t, err)

	assert.True(t, reply.Matched)
	assert.Equal(t, "Das 8h às 18h.", reply.Answer)
	assert.Equal(t, 100, reply.Score)
	assert.Empty(t, reply.Suggestions)
}

func TestEngineAskAppliesSynonyms(t *testing.T) {
	engine, _ := newTestEngine(t)

	reply, err := engine.Ask(context.Background(), "s1", "vcs fazem usg?")
	require.NoError(t, err)

	assert.True(t, reply.Matched)
	assert.Equal(t, "Sim, fazemos ultrassom.", reply.Answer)
}

func TestEngineAskMatchesKeywords(t *testing.T) {
	engine, _ := newTestEngine(t)

	// Not close enough to any full question, but hits the keyword list.
	reply, err := engine.Ask(context.Background(), "s1", "quero marcar consulta urgente amanha cedo")
	require.NoError(t, err)

	assert.True(t, reply.Matched)
	assert.Equal(t, "Pelo telefone ou site.", reply.Answer)
}

func TestEngineAskFallback(t *testing.T) {
	engine, _ := newTestEngine(t)

	reply, err := engine.Ask(context.Background(), "s1", "qual o valor do estacionamento rotativo")
	require.NoError(t, err)

	assert.False(t, reply.Matched)
	assert.Equal(t, "Desculpe, não entendi.", reply.Answer)
}

func TestEngineAskSuggestionsOnNoMatch(t *testing.T) {
	engine, _ := newTestEngine(t)

	// Shares the token "atendimento" with a catalog question but scores
	// below the match threshold.
	reply, err := engine.Ask(context.Background(), "s1", "atendimento emergencial noturno veterinario")
	require.NoError(t, err)

	assert.False(t, reply.Matched)
	assert.Contains(t, reply.Suggestions, "Qual o horário de atendimento?")
}

func TestEngineAskEmptyMessage(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Ask(context.Background(), "s1", "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestEngineAskRecordsConversation(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Ask(context.Background(), "s1", "Vocês fazem ultrassom?")
	require.NoError(t, err)

	history := engine.conversations.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, "Vocês fazem ultrassom?", history[0].Text)
	assert.Equal(t, RoleBot, history[1].Role)
	assert.Equal(t, "Sim, fazemos ultrassom.", history[1].Text)
}

// brokenStore fails every read, standing in for a database outage.
type brokenStore struct {
	storage.CatalogStore
	storage.SynonymStore
}

func (brokenStore) ListEntries(ctx context.Context) ([]storage.Entry, error) {
	return nil, errors.New("database is locked")
}

func (brokenStore) ListSynonyms(ctx context.Context) ([]storage.Synonym, error) {
	return nil, errors.New("database is locked")
}

func TestEngineAskStoreFailure(t *testing.T) {
	log := logger.NewWithWriter("error", io.Discard)
	engine := NewEngine(EngineConfig{
		Catalog:  brokenStore{},
		Synonyms: brokenStore{},
		Matcher:  match.NewMatcher(match.PolicyFirstMatch, 70, 50),
		Metrics:  metrics.New(prometheus.NewRegistry()),
		Logger:   log,
		Fallback: "Desculpe, não entendi.",
	})

	_, err := engine.Ask(context.Background(), "s1", "oi")
	require.Error(t, err)

	wrapped, ok := apperrors.AsWrapped(err)
	require.True(t, ok, "store failures must carry a user-facing message")
	assert.Equal(t, "bot", wrapped.Module)
	assert.NotEmpty(t, wrapped.UserMessage)
	assert.ErrorContains(t, wrapped.Cause, "database is locked")
}

func TestEngineRebuildSuggestionsAfterCatalogChange(t *testing.T) {
	engine, db := newTestEngine(t)
	ctx := context.Background()

	entry := &storage.Entry{Question: "Aceitam plano de saúde?", Answer: "Sim, os principais."}
	require.NoError(t, db.CreateEntry(ctx, entry))
	require.NoError(t, engine.RebuildSuggestions(ctx))

	reply, err := engine.Ask(ctx, "s1", "plano odontologico empresarial cobertura")
	require.NoError(t, err)

	assert.False(t, reply.Matched)
	assert.Contains(t, reply.Suggestions, "Aceitam plano de saúde?")
}
