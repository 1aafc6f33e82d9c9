// Package main provides the equipment tracking LINE bot server entry point.
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

	"github.com/equiptrack/linebot-go/internal/admin"
	"github.com/equiptrack/linebot-go/internal/apiclient"
	"github.com/equiptrack/linebot-go/internal/bot"
	"github.com/equiptrack/linebot-go/internal/buildinfo"
	"github.com/equiptrack/linebot-go/internal/config"
	"github.com/equiptrack/linebot-go/internal/device"
	"github.com/equiptrack/linebot-go/internal/logger"
	"github.com/equiptrack/linebot-go/internal/metrics"
	"github.com/equiptrack/linebot-go/internal/sentry"
	"github.com/equiptrack/linebot-go/internal/storage"
	"github.com/equiptrack/linebot-go/internal/webhook"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger with optional Better Stack log shipping
	log, logShutdown := logger.NewWithOptions(logger.Options{
		Level:               cfg.LogLevel,
		Writer:              os.Stdout,
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log.Infof("Starting equipment tracking bot server")

	// Initialize error reporting (no-op when token is empty)
	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Errorf("Failed to initialize error reporting")
	}

	// Create Prometheus registry with standard collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)
	log.Infof("Metrics initialized")

	// Select the device backend
	var provider device.Provider
	var db *storage.DB
	if cfg.UseSQLite() {
		db, err = storage.New(cfg.SQLitePath())
		if err != nil {
			log.WithError(err).Errorf("Failed to open database")
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		provider = storage.NewProvider(db)
		log.WithField("path", cfg.SQLitePath()).Infof("SQLite device backend ready")
	} else {
		client := apiclient.NewClient(cfg.PlatformAPIURL, cfg.PlatformID, cfg.APITimeout)
		provider = apiclient.NewProvider(client)
		log.WithField("url", cfg.PlatformAPIURL).Infof("Platform API device backend ready")
	}

	// Admin registry seeded from configuration
	admins := admin.NewRegistry(cfg.DeveloperUserID, cfg.AdminUserIDs)

	processor := bot.NewProcessor(bot.ProcessorConfig{
		Admins:   admins,
		Provider: provider,
		Logger:   log,
		Metrics:  m,
	})

	webhookHandler, err := webhook.NewHandler(webhook.HandlerConfig{
		ChannelSecret: cfg.LineChannelSecret,
		ChannelToken:  cfg.LineChannelToken,
		BotConfig:     &cfg.Bot,
		Metrics:       m,
		Logger:        log,
		Processor:     processor,
	})
	if err != nil {
		log.WithError(err).Errorf("Failed to create webhook handler")
		os.Exit(1)
	}
	log.Infof("Webhook handler created")

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))

	setupRoutes(router, cfg, webhookHandler, db, registry)

	// HTTP server timeouts sized for LINE webhook delivery,
	// see internal/config/timeouts.go
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.WebhookHTTPRead,
		WriteTimeout: config.WebhookHTTPWrite,
		IdleTimeout:  config.WebhookHTTPIdle,
	}

	go func() {
		log.WithField("port", cfg.Port).Infof("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Errorf("Failed to start server")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infof("Shutting down server...")

	webhookHandler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Errorf("Server forced to shutdown")
	}

	// Flush buffered errors and logs before exit
	sentry.Flush(2 * time.Second)
	if err := logShutdown(shutdownCtx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to flush logs: %v\n", err)
	}

	log.Infof("Server stopped")
}
