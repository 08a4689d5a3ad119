package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pergunte-russel/russel-bot-go/internal/bot"
	"github.com/pergunte-russel/russel-bot-go/internal/config"
	"github.com/pergunte-russel/russel-bot-go/internal/storage"
)

// setupRoutes configures the operational endpoints. The chat and admin
// APIs are registered by the httpapi handler.
func setupRoutes(router *gin.Engine, db *storage.DB, conversations *bot.Conversations, registry *prometheus.Registry, cfg *config.Config) {
	rootHandler := func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "https://github.com/pergunte-russel/russel-bot-go")
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness: only that the process is up, never dependencies.
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness: database reachable plus catalog counts.
	readyHandler := func(c *gin.Context) {
		if err := db.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		entryCount, _ := db.CountEntries(c.Request.Context())
		synonymCount, _ := db.CountSynonyms(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"catalog": gin.H{
				"entries":  entryCount,
				"synonyms": synonymCount,
			},
			"sessions": conversations.ActiveSessions(),
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		router.GET("/metrics", gin.BasicAuth(gin.Accounts{cfg.MetricsUsername: cfg.MetricsPassword}), metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
