package main

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pergunte-russel/russel-bot-go/internal/backup"
	"github.com/pergunte-russel/russel-bot-go/internal/bot"
	"github.com/pergunte-russel/russel-bot-go/internal/logger"
	"github.com/pergunte-russel/russel-bot-go/internal/metrics"
	"github.com/pergunte-russel/russel-bot-go/internal/storage"
)

type jobsConfig struct {
	Conversations  *bot.Conversations
	SweepInterval  time.Duration
	BackupStore    *backup.Store
	BackupKey      string
	BackupInterval time.Duration
	DB             *storage.DB
	Metrics        *metrics.Metrics
	Logger         *logger.Logger
}

// startJobs launches the background loops: conversation TTL sweeping
// and, when configured, periodic snapshot backups. A panic in one job
// is logged and stops only that job.
func startJobs(ctx context.Context, cfg jobsConfig) *errgroup.Group {
	g, ctx := errgroup.WithContext(ctx)
	log := cfg.Logger.WithModule("jobs")

	g.Go(func() error {
		defer recoverJob(log, "conversation_sweep")
		sweepConversations(ctx, cfg.Conversations, cfg.SweepInterval, log)
		return nil
	})

	if cfg.BackupStore != nil {
		manager := backup.NewManager(backup.ManagerConfig{
			DB:      cfg.DB,
			Store:   cfg.BackupStore,
			Key:     cfg.BackupKey,
			Logger:  cfg.Logger,
			Metrics: cfg.Metrics,
		})
		g.Go(func() error {
			defer recoverJob(log, "snapshot_backup")
			manager.Run(ctx, cfg.BackupInterval)
			return nil
		})
		log.WithField("interval", cfg.BackupInterval.String()).Info("Snapshot backup job started")
	}

	return g
}

// sweepConversations drops idle sessions on a timer.
func sweepConversations(ctx context.Context, conversations *bot.Conversations, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := conversations.Sweep(); removed > 0 {
				log.WithField("removed", removed).Debug("Swept idle conversations")
			}
		}
	}
}

func recoverJob(log *logger.Logger, name string) {
	if r := recover(); r != nil {
		log.WithFields(map[string]any{"job": name, "panic": r}).Error("Panic in background job")
	}
}
