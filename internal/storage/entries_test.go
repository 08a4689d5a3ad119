package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/pergunte-russel/russel-bot-go/internal/errors"
)

func newStoreForTest(t *testing.T) *DB {
	t.Helper()
	db, err := NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEntryCRUD(t *testing.T) {
	db := newStoreForTest(t)
	ctx := context.Background()

	entry := &Entry{
		Question: "Vocês fazem ultrassom?",
		Answer:   "Sim, com agendamento.",
		Keywords: []string{"usg", "ecografia"},
	}
	require.NoError(t, db.CreateEntry(ctx, entry))
	require.NotEmpty(t, entry.ID)
	assert.Equal(t, 1, entry.Position)

	got, err := db.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Question, got.Question)
	assert.Equal(t, entry.Answer, got.Answer)
	assert.Equal(t, []string{"usg", "ecografia"}, got.Keywords)

	got.Answer = "Sim, de segunda a sexta."
	got.Keywords = nil
	require.NoError(t, db.UpdateEntry(ctx, got))

	updated, err := db.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sim, de segunda a sexta.", updated.Answer)
	assert.Nil(t, updated.Keywords)
	assert.Equal(t, 1, updated.Position, "update must not reorder the catalog")

	require.NoError(t, db.DeleteEntry(ctx, entry.ID))
	_, err = db.GetEntry(ctx, entry.ID)
	assert.ErrorIs(t, err, domerrors.ErrNotFound)
}

func TestEntryNotFound(t *testing.T) {
	db := newStoreForTest(t)
	ctx := context.Background()

	_, err := db.GetEntry(ctx, "missing")
	assert.ErrorIs(t, err, domerrors.ErrNotFound)

	err = db.UpdateEntry(ctx, &Entry{ID: "missing", Question: "q", Answer: "a"})
	assert.ErrorIs(t, err, domerrors.ErrNotFound)

	err = db.DeleteEntry(ctx, "missing")
	assert.ErrorIs(t, err, domerrors.ErrNotFound)
}

func TestListEntriesKeepsInsertionOrder(t *testing.T) {
	db := newStoreForTest(t)
	ctx := context.Background()

	questions := []string{"primeira", "segunda", "terceira"}
	for _, q := range questions {
		require.NoError(t, db.CreateEntry(ctx, &Entry{Question: q, Answer: "a"}))
	}

	entries, err := db.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, q := range questions {
		assert.Equal(t, q, entries[i].Question)
		assert.Equal(t, i+1, entries[i].Position)
	}

	// Deleting the middle entry must not disturb relative order.
	require.NoError(t, db.DeleteEntry(ctx, entries[1].ID))
	require.NoError(t, db.CreateEntry(ctx, &Entry{Question: "quarta", Answer: "a"}))

	entries, err = db.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "primeira", entries[0].Question)
	assert.Equal(t, "terceira", entries[1].Question)
	assert.Equal(t, "quarta", entries[2].Question)
}

func TestSearchEntries(t *testing.T) {
	db := newStoreForTest(t)
	ctx := context.Background()

	require.NoError(t, db.CreateEntry(ctx, &Entry{Question: "Fazem ultrassom?", Answer: "Sim"}))
	require.NoError(t, db.CreateEntry(ctx, &Entry{Question: "Qual o endereço?", Answer: "Rua das Flores"}))
	require.NoError(t, db.CreateEntry(ctx, &Entry{Question: "Horário?", Answer: "Das 8h às 18h, ultrassom só de manhã"}))

	results, err := db.SearchEntries(ctx, "ultrassom")
	require.NoError(t, err)
	require.Len(t, results, 2, "matches question or answer")

	// LIKE wildcards in the term must be treated literally.
	results, err = db.SearchEntries(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCountEntries(t *testing.T) {
	db := newStoreForTest(t)
	ctx := context.Background()

	count, err := db.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, db.CreateEntry(ctx, &Entry{Question: "q", Answer: "a"}))
	count, err = db.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

type opCounter struct {
	ops map[string]int
}

func (c *opCounter) RecordStoreOperation(operation, status string) {
	if c.ops == nil {
		c.ops = make(map[string]int)
	}
	c.ops[operation+"/"+status]++
}

func TestStoreOperationsRecorded(t *testing.T) {
	db := newStoreForTest(t)
	rec := &opCounter{}
	db.SetRecorder(rec)
	ctx := context.Background()

	require.NoError(t, db.CreateEntry(ctx, &Entry{Question: "q", Answer: "a"}))

	_, err := db.ListEntries(ctx)
	require.NoError(t, err)

	_, err = db.GetEntry(ctx, "missing")
	assert.ErrorIs(t, err, domerrors.ErrNotFound)

	require.NoError(t, db.CreateSynonym(ctx, &Synonym{Synonym: "usg", Canonical: "ultrassom"}))
	assert.ErrorIs(t, db.DeleteSynonym(ctx, "missing"), domerrors.ErrNotFound)

	assert.Equal(t, 1, rec.ops["create_entry/success"])
	assert.Equal(t, 1, rec.ops["list_entries/success"])
	assert.Equal(t, 1, rec.ops["get_entry/not_found"])
	assert.Equal(t, 1, rec.ops["create_synonym/success"])
	assert.Equal(t, 1, rec.ops["delete_synonym/not_found"])
}

func TestMalformedKeywordsIgnored(t *testing.T) {
	db := newStoreForTest(t)
	ctx := context.Background()

	entry := &Entry{Question: "q", Answer: "a"}
	require.NoError(t, db.CreateEntry(ctx, entry))

	_, err := db.Conn().ExecContext(ctx, `UPDATE entries SET keywords = 'not-json' WHERE id = ?`, entry.ID)
	require.NoError(t, err)

	got, err := db.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Keywords, "malformed keywords must not fail the read")
}
