// Package main provides the FAQ bot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pergunte-russel/russel-bot-go/internal/backup"
	"github.com/pergunte-russel/russel-bot-go/internal/bot"
	"github.com/pergunte-russel/russel-bot-go/internal/config"
	"github.com/pergunte-russel/russel-bot-go/internal/httpapi"
	"github.com/pergunte-russel/russel-bot-go/internal/logger"
	"github.com/pergunte-russel/russel-bot-go/internal/match"
	"github.com/pergunte-russel/russel-bot-go/internal/metrics"
	"github.com/pergunte-russel/russel-bot-go/internal/ratelimit"
	"github.com/pergunte-russel/russel-bot-go/internal/sentry"
	"github.com/pergunte-russel/russel-bot-go/internal/storage"
	"github.com/pergunte-russel/russel-bot-go/internal/suggest"
)

// HTTP server timeouts. The chat API is small JSON payloads, so short
// read/write limits are enough to shed stuck clients.
const (
	httpReadTimeout  = 10 * time.Second
	httpWriteTimeout = 30 * time.Second
	httpIdleTimeout  = 120 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithOptions(cfg.LogLevel, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log.Info("Starting Russel FAQ bot server")

	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     cfg.SentryRelease,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Fatal("Failed to initialize error tracking")
	}
	if sentry.IsEnabled() {
		defer sentry.Flush(2 * time.Second)
		log.Info("Error tracking enabled")
	}

	// Restore the database from the latest snapshot before opening it,
	// so a rescheduled container comes back with its catalog.
	var backupStore *backup.Store
	if cfg.BackupConfigured() {
		backupStore, err = backup.NewStore(context.Background(), backup.StoreConfig{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to create backup store")
		}

		restored, err := backup.RestoreIfMissing(context.Background(), backupStore, cfg.BackupKey, cfg.SQLitePath(), log)
		if err != nil {
			log.WithError(err).Fatal("Failed to restore database snapshot")
		}
		if restored {
			log.Info("Database restored from remote snapshot")
		}
	}

	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)
	db.SetRecorder(m)

	policy, err := match.ParsePolicy(cfg.MatchPolicy)
	if err != nil {
		log.WithError(err).Fatal("Invalid match policy")
	}
	matcher := match.NewMatcher(policy, cfg.MatchThreshold, cfg.KeywordThreshold)
	log.WithFields(map[string]any{
		"policy":            policy.String(),
		"threshold":         cfg.MatchThreshold,
		"keyword_threshold": cfg.KeywordThreshold,
	}).Info("Matcher configured")

	conversations := bot.NewConversations(cfg.SessionTTL)
	suggestions := suggest.NewIndex(log)

	engine := bot.NewEngine(bot.EngineConfig{
		Catalog:        db,
		Synonyms:       db,
		Matcher:        matcher,
		Suggestions:    suggestions,
		Conversations:  conversations,
		Metrics:        m,
		Logger:         log,
		Fallback:       cfg.FallbackMessage,
		MaxSuggestions: cfg.MaxSuggestions,
	})
	if err := engine.RebuildSuggestions(context.Background()); err != nil {
		log.WithError(err).Warn("Failed to build suggestion index")
	}

	limiter := ratelimit.NewSessionLimiter(ratelimit.SessionLimiterConfig{
		MaxTokens:     cfg.ChatRateBurst,
		RefillRate:    cfg.ChatRateRefillPerSec,
		CleanupPeriod: 5 * time.Minute,
	})
	limiter.OnDrop(func() { m.RecordRateLimiterDrop("session") })
	defer limiter.Stop()

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Engine:        engine,
		Conversations: conversations,
		Catalog:       db,
		Synonyms:      db,
		Limiter:       limiter,
		Metrics:       m,
		Logger:        log,
	})
	handler.Register(router, cfg.AdminPassword)
	setupRoutes(router, db, conversations, registry, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: httpWriteTimeout,
		IdleTimeout:  httpIdleTimeout,
	}

	jobsCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	jobs := startJobs(jobsCtx, jobsConfig{
		Conversations:  conversations,
		SweepInterval:  cfg.SessionSweepInterval,
		BackupStore:    backupStore,
		BackupKey:      cfg.BackupKey,
		BackupInterval: cfg.BackupInterval,
		DB:             db,
		Metrics:        m,
		Logger:         log,
	})

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancelJobs()

	jobsDone := make(chan struct{})
	go func() {
		_ = jobs.Wait()
		close(jobsDone)
	}()
	select {
	case <-jobsDone:
		log.Info("Background jobs stopped")
	case <-time.After(5 * time.Second):
		log.Warn("Timeout waiting for background jobs")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	log.Info("Server stopped")
}
