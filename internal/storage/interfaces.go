// Package storage provides repository interfaces for data access abstraction.
// These interfaces enable dependency inversion and facilitate testing by
// decoupling the chat engine and HTTP handlers from the SQLite implementation.
package storage

import (
	"context"
)

// CatalogStore defines the interface for FAQ entry operations.
type CatalogStore interface {
	ListEntries(ctx context.Context) ([]Entry, error)
	GetEntry(ctx context.Context, id string) (*Entry, error)
	CreateEntry(ctx context.Context, entry *Entry) error
	UpdateEntry(ctx context.Context, entry *Entry) error
	DeleteEntry(ctx context.Context, id string) error
	SearchEntries(ctx context.Context, term string) ([]Entry, error)
	CountEntries(ctx context.Context) (int, error)
}

// SynonymStore defines the interface for synonym rule operations.
type SynonymStore interface {
	ListSynonyms(ctx context.Context) ([]Synonym, error)
	GetSynonym(ctx context.Context, id string) (*Synonym, error)
	CreateSynonym(ctx context.Context, syn *Synonym) error
	UpdateSynonym(ctx context.Context, syn *Synonym) error
	DeleteSynonym(ctx context.Context, id string) error
	CountSynonyms(ctx context.Context) (int, error)
}

// HealthStore defines the interface for health check operations.
type HealthStore interface {
	// Ping verifies database connection is alive.
	Ping(ctx context.Context) error

	// Ready checks if database is ready to serve queries.
	// Performs more thorough checks than Ping.
	Ready(ctx context.Context) error
}

// Store is the aggregate interface combining all store interfaces.
// The DB type implements this interface, providing a single entry point
// for all data operations.
type Store interface {
	CatalogStore
	SynonymStore
	HealthStore
	Close() error
}

// Ensure DB implements all store interfaces at compile time.
var (
	_ CatalogStore = (*DB)(nil)
	_ SynonymStore = (*DB)(nil)
	_ HealthStore  = (*DB)(nil)
	_ Store        = (*DB)(nil)
)
