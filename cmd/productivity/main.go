package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/Productivity/internal/api"
	"github.com/MikeSquared-Agency/Productivity/internal/config"
	"github.com/MikeSquared-Agency/Productivity/internal/hermes"
	"github.com/MikeSquared-Agency/Productivity/internal/notion"
	"github.com/MikeSquared-Agency/Productivity/internal/parameter"
	"github.com/MikeSquared-Agency/Productivity/internal/productivity"
	"github.com/MikeSquared-Agency/Productivity/internal/scheduler"
	"github.com/MikeSquared-Agency/Productivity/internal/scoring"
	"github.com/MikeSquared-Agency/Productivity/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	weights := scoring.PriorityWeights{
		Urgent:    cfg.Scoring.Weights.Urgent,
		Important: cfg.Scoring.Weights.Important,
		Unhurried: cfg.Scoring.Weights.Unhurried,
	}
	if err := weights.Validate(); err != nil {
		logger.Error("invalid scoring weights", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	// Notion
	notionClient := notion.NewHTTPClient(notion.Options{
		CompletedProperty: cfg.Notion.CompletedProperty,
		PriorityProperty:  cfg.Notion.PriorityProperty,
		PageSize:          cfg.Notion.PageSize,
		Timeout:           cfg.NotionTimeout(),
		Breaker: notion.BreakerOptions{
			Enabled:          cfg.Notion.Breaker.Enabled,
			FailureThreshold: cfg.Notion.Breaker.FailureThreshold,
			OpenTimeout:      cfg.BreakerOpenTimeout(),
			HalfOpenRequests: cfg.Notion.Breaker.HalfOpenRequests,
		},
	}, logger)

	params := parameter.NewService(db, parameter.Defaults(cfg.Notion.BaseURL, cfg.Notion.Headers), logger)
	scorer := scoring.NewScorer(weights, cfg.Scoring.Workers, logger)
	calc := productivity.NewCalculator(params, notionClient, scorer, db, hermesClient, logger)

	// Scheduler
	sched := scheduler.New(calc, hermesClient, cfg.ScheduleInterval(), logger)
	sched.SetupSubscriptions()
	sched.Start(ctx)
	defer sched.Stop()
	logger.Info("scheduler started", "interval", cfg.ScheduleInterval())

	// API server
	router := api.NewRouter(db, calc, cfg.Server.AdminToken, cfg.Server.RateLimit, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.Format) == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
