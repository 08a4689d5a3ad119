package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domerrors "github.com/pergunte-russel/russel-bot-go/internal/errors"
)

// slowQueryWarnThreshold is the duration above which a store operation
// is logged as slow.
const slowQueryWarnThreshold = 100 * time.Millisecond

// ListEntries returns all catalog entries in position order.
// Position order is the order the matcher scans under first-match selection.
func (db *DB) ListEntries(ctx context.Context) (entries []Entry, err error) {
	defer func() { db.recordOp("list_entries", err) }()
	query := `SELECT id, question, answer, keywords, position, created_at, updated_at FROM entries ORDER BY position ASC`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list entries", "error", err)
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	warnSlowQuery(ctx, "ListEntries", start)
	return entries, nil
}

// GetEntry retrieves a single entry by id.
// Returns errors.ErrNotFound when the id does not exist.
func (db *DB) GetEntry(ctx context.Context, id string) (_ *Entry, err error) {
	defer func() { db.recordOp("get_entry", err) }()
	query := `SELECT id, question, answer, keywords, position, created_at, updated_at FROM entries WHERE id = ?`

	var entry Entry
	var keywordsJSON sql.NullString
	err = db.conn.QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.Question,
		&entry.Answer,
		&keywordsJSON,
		&entry.Position,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("entry %s: %w", id, domerrors.ErrNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query entry", "entry_id", id, "error", err)
		return nil, fmt.Errorf("query entry: %w", err)
	}

	entry.Keywords = decodeKeywords(ctx, entry.ID, keywordsJSON)
	return &entry, nil
}

// CreateEntry inserts a new entry at the end of the catalog.
// The store assigns the id and position; both are written back to entry.
func (db *DB) CreateEntry(ctx context.Context, entry *Entry) (err error) {
	defer func() { db.recordOp("create_entry", err) }()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().Unix()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	keywordsJSON, err := encodeKeywords(entry.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}

	query := `
		INSERT INTO entries (id, question, answer, keywords, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, COALESCE((SELECT MAX(position) FROM entries), 0) + 1, ?, ?)
	`
	start := time.Now()
	_, err = db.conn.ExecContext(ctx, query, entry.ID, entry.Question, entry.Answer, keywordsJSON, now, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create entry", "entry_id", entry.ID, "error", err)
		return fmt.Errorf("create entry: %w", err)
	}

	if err := db.conn.QueryRowContext(ctx, `SELECT position FROM entries WHERE id = ?`, entry.ID).Scan(&entry.Position); err != nil {
		return fmt.Errorf("read back entry position: %w", err)
	}

	warnSlowQuery(ctx, "CreateEntry", start)
	return nil
}

// UpdateEntry rewrites question, answer and keywords of an existing entry.
// Position is preserved so edits do not reorder the catalog.
// Returns errors.ErrNotFound when the id does not exist.
func (db *DB) UpdateEntry(ctx context.Context, entry *Entry) (err error) {
	defer func() { db.recordOp("update_entry", err) }()
	keywordsJSON, err := encodeKeywords(entry.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}
	entry.UpdatedAt = time.Now().Unix()

	query := `UPDATE entries SET question = ?, answer = ?, keywords = ?, updated_at = ? WHERE id = ?`
	start := time.Now()
	result, err := db.conn.ExecContext(ctx, query, entry.Question, entry.Answer, keywordsJSON, entry.UpdatedAt, entry.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update entry", "entry_id", entry.ID, "error", err)
		return fmt.Errorf("update entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("entry %s: %w", entry.ID, domerrors.ErrNotFound)
	}

	warnSlowQuery(ctx, "UpdateEntry", start)
	return nil
}

// DeleteEntry removes an entry by id.
// Returns errors.ErrNotFound when the id does not exist.
func (db *DB) DeleteEntry(ctx context.Context, id string) (err error) {
	defer func() { db.recordOp("delete_entry", err) }()
	result, err := db.conn.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete entry", "entry_id", id, "error", err)
		return fmt.Errorf("delete entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("entry %s: %w", id, domerrors.ErrNotFound)
	}
	return nil
}

// SearchEntries returns entries whose question or answer contains the
// given term, in position order. Intended for the admin listing filter.
func (db *DB) SearchEntries(ctx context.Context, term string) (entries []Entry, err error) {
	defer func() { db.recordOp("search_entries", err) }()
	pattern := "%" + sanitizeSearchTerm(term) + "%"
	query := `
		SELECT id, question, answer, keywords, position, created_at, updated_at
		FROM entries
		WHERE question LIKE ? ESCAPE '\' OR answer LIKE ? ESCAPE '\'
		ORDER BY position ASC
	`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, pattern, pattern)
	if err != nil {
		slog.ErrorContext(ctx, "failed to search entries", "search_term", term, "error", err)
		return nil, fmt.Errorf("search entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	warnSlowQuery(ctx, "SearchEntries", start)
	return entries, nil
}

// CountEntries returns the total number of catalog entries.
func (db *DB) CountEntries(ctx context.Context) (count int, err error) {
	defer func() { db.recordOp("count_entries", err) }()
	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var entry Entry
	var keywordsJSON sql.NullString
	if err := rows.Scan(
		&entry.ID,
		&entry.Question,
		&entry.Answer,
		&keywordsJSON,
		&entry.Position,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	entry.Keywords = decodeKeywords(context.Background(), entry.ID, keywordsJSON)
	return entry, nil
}

func encodeKeywords(keywords []string) (sql.NullString, error) {
	if len(keywords) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(keywords)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// decodeKeywords tolerates malformed rows: a keywords column that fails
// to decode yields nil keywords instead of failing the whole scan.
func decodeKeywords(ctx context.Context, id string, raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal([]byte(raw.String), &keywords); err != nil {
		slog.WarnContext(ctx, "malformed keywords column, ignoring",
			"entry_id", id,
			"error", err)
		return nil
	}
	return keywords
}

func warnSlowQuery(ctx context.Context, operation string, start time.Time) {
	if duration := time.Since(start); duration > slowQueryWarnThreshold {
		slog.WarnContext(ctx, "slow database operation",
			"operation", operation,
			"duration_ms", duration.Milliseconds())
	}
}
