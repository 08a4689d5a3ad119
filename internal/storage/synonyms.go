package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domerrors "github.com/pergunte-russel/russel-bot-go/internal/errors"
)

// ListSynonyms returns all synonym rules in position order.
// Position order is the order substitution applies; with overlapping
// rules the result depends on it.
func (db *DB) ListSynonyms(ctx context.Context) (synonyms []Synonym, err error) {
	defer func() { db.recordOp("list_synonyms", err) }()
	query := `SELECT id, synonym, canonical, position, created_at, updated_at FROM synonyms ORDER BY position ASC`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list synonyms", "error", err)
		return nil, fmt.Errorf("query synonyms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var syn Synonym
		if err := rows.Scan(&syn.ID, &syn.Synonym, &syn.Canonical, &syn.Position, &syn.CreatedAt, &syn.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan synonym: %w", err)
		}
		synonyms = append(synonyms, syn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	warnSlowQuery(ctx, "ListSynonyms", start)
	return synonyms, nil
}

// GetSynonym retrieves a single synonym rule by id.
// Returns errors.ErrNotFound when the id does not exist.
func (db *DB) GetSynonym(ctx context.Context, id string) (_ *Synonym, err error) {
	defer func() { db.recordOp("get_synonym", err) }()
	query := `SELECT id, synonym, canonical, position, created_at, updated_at FROM synonyms WHERE id = ?`

	var syn Synonym
	err = db.conn.QueryRowContext(ctx, query, id).Scan(
		&syn.ID,
		&syn.Synonym,
		&syn.Canonical,
		&syn.Position,
		&syn.CreatedAt,
		&syn.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("synonym %s: %w", id, domerrors.ErrNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query synonym", "synonym_id", id, "error", err)
		return nil, fmt.Errorf("query synonym: %w", err)
	}

	return &syn, nil
}

// CreateSynonym inserts a new rule at the end of the substitution order.
// The store assigns the id and position; both are written back to syn.
func (db *DB) CreateSynonym(ctx context.Context, syn *Synonym) (err error) {
	defer func() { db.recordOp("create_synonym", err) }()
	if syn.ID == "" {
		syn.ID = uuid.NewString()
	}
	now := time.Now().Unix()
	syn.CreatedAt = now
	syn.UpdatedAt = now

	query := `
		INSERT INTO synonyms (id, synonym, canonical, position, created_at, updated_at)
		VALUES (?, ?, ?, COALESCE((SELECT MAX(position) FROM synonyms), 0) + 1, ?, ?)
	`
	start := time.Now()
	if _, err := db.conn.ExecContext(ctx, query, syn.ID, syn.Synonym, syn.Canonical, now, now); err != nil {
		slog.ErrorContext(ctx, "failed to create synonym", "synonym_id", syn.ID, "error", err)
		return fmt.Errorf("create synonym: %w", err)
	}

	if err := db.conn.QueryRowContext(ctx, `SELECT position FROM synonyms WHERE id = ?`, syn.ID).Scan(&syn.Position); err != nil {
		return fmt.Errorf("read back synonym position: %w", err)
	}

	warnSlowQuery(ctx, "CreateSynonym", start)
	return nil
}

// UpdateSynonym rewrites the synonym and canonical of an existing rule.
// Position is preserved so edits do not reorder substitution.
// Returns errors.ErrNotFound when the id does not exist.
func (db *DB) UpdateSynonym(ctx context.Context, syn *Synonym) (err error) {
	defer func() { db.recordOp("update_synonym", err) }()
	syn.UpdatedAt = time.Now().Unix()

	query := `UPDATE synonyms SET synonym = ?, canonical = ?, updated_at = ? WHERE id = ?`
	result, err := db.conn.ExecContext(ctx, query, syn.Synonym, syn.Canonical, syn.UpdatedAt, syn.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update synonym", "synonym_id", syn.ID, "error", err)
		return fmt.Errorf("update synonym: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update synonym rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("synonym %s: %w", syn.ID, domerrors.ErrNotFound)
	}
	return nil
}

// DeleteSynonym removes a rule by id.
// Returns errors.ErrNotFound when the id does not exist.
func (db *DB) DeleteSynonym(ctx context.Context, id string) (err error) {
	defer func() { db.recordOp("delete_synonym", err) }()
	result, err := db.conn.ExecContext(ctx, `DELETE FROM synonyms WHERE id = ?`, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete synonym", "synonym_id", id, "error", err)
		return fmt.Errorf("delete synonym: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete synonym rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("synonym %s: %w", id, domerrors.ErrNotFound)
	}
	return nil
}

// CountSynonyms returns the total number of synonym rules.
func (db *DB) CountSynonyms(ctx context.Context) (count int, err error) {
	defer func() { db.recordOp("count_synonyms", err) }()
	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM synonyms`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count synonyms: %w", err)
	}
	return count, nil
}
