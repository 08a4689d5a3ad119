package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pergunte-russel/russel-bot-go/internal/logger"
	"github.com/pergunte-russel/russel-bot-go/internal/metrics"
	"github.com/pergunte-russel/russel-bot-go/internal/storage"
)

// Manager produces database snapshots and ships them to object storage.
type Manager struct {
	db      *storage.DB
	store   *Store
	key     string
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// ManagerConfig holds dependencies for creating a Manager.
type ManagerConfig struct {
	DB      *storage.DB
	Store   *Store
	Key     string // object key for the snapshot
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// NewManager creates a backup manager.
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		db:      cfg.DB,
		store:   cfg.Store,
		key:     cfg.Key,
		logger:  cfg.Logger.WithModule("backup"),
		metrics: cfg.Metrics,
	}
}

// UploadSnapshot takes a consistent snapshot of the database,
// compresses it and uploads it, replacing the previous snapshot.
func (m *Manager) UploadSnapshot(ctx context.Context) error {
	start := time.Now()

	err := m.uploadSnapshot(ctx)
	if err != nil {
		m.metrics.RecordBackup("error", time.Since(start).Seconds())
		return err
	}

	m.metrics.RecordBackup("success", time.Since(start).Seconds())
	m.logger.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Snapshot uploaded")
	return nil
}

func (m *Manager) uploadSnapshot(ctx context.Context) error {
	tmpDir, err := os.MkdirTemp("", "russel-snapshot-*")
	if err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	rawPath := filepath.Join(tmpDir, "snapshot.db")
	compressedPath := rawPath + ".zst"

	if err := m.db.CreateSnapshot(ctx, rawPath); err != nil {
		return fmt.Errorf("snapshot database: %w", err)
	}
	if err := CompressFile(rawPath, compressedPath); err != nil {
		return err
	}

	f, err := os.Open(compressedPath)
	if err != nil {
		return fmt.Errorf("open compressed snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := m.store.Upload(ctx, m.key, f, "application/zstd"); err != nil {
		return err
	}
	return nil
}

// RestoreIfMissing downloads and restores the latest snapshot when no
// local database exists. Returns true when a restore happened. A
// missing remote snapshot is a fresh start, not an error.
func RestoreIfMissing(ctx context.Context, store *Store, key, dbPath string, log *logger.Logger) (bool, error) {
	if _, err := os.Stat(dbPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat database: %w", err)
	}

	body, _, err := store.Download(ctx, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			log.Info("No remote snapshot found, starting with an empty database")
			return false, nil
		}
		return false, err
	}
	defer func() { _ = body.Close() }()

	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create data dir: %w", err)
		}
	}

	if err := DecompressStream(body, dbPath); err != nil {
		return false, err
	}

	log.WithField("path", dbPath).Info("Database restored from snapshot")
	return true, nil
}

// Run uploads snapshots on a timer until the context is canceled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.UploadSnapshot(ctx); err != nil {
				m.logger.WithError(err).Error("Snapshot upload failed")
			}
		}
	}
}
