package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode is configured in db.go.
func InitSchema(db *sql.DB) error {
	if err := createEntriesTable(db); err != nil {
		return err
	}

	return createSynonymsTable(db)
}

func createEntriesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		keywords TEXT,
		position INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_position ON entries(position);
	CREATE INDEX IF NOT EXISTS idx_entries_question ON entries(question);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create entries table: %w", err)
	}

	return nil
}

func createSynonymsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS synonyms (
		id TEXT PRIMARY KEY,
		synonym TEXT NOT NULL,
		canonical TEXT NOT NULL,
		position INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_synonyms_position ON synonyms(position);
	CREATE INDEX IF NOT EXISTS idx_synonyms_synonym ON synonyms(synonym);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create synonyms table: %w", err)
	}

	return nil
}
