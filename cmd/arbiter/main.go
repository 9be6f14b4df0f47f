package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/Arbiter/internal/analysis"
	"github.com/MikeSquared-Agency/Arbiter/internal/api"
	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
	"github.com/MikeSquared-Agency/Arbiter/internal/config"
	"github.com/MikeSquared-Agency/Arbiter/internal/hermes"
	"github.com/MikeSquared-Agency/Arbiter/internal/metrics"
	"github.com/MikeSquared-Agency/Arbiter/internal/scoring"
	"github.com/MikeSquared-Agency/Arbiter/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog
	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		cat, err = catalog.Load(cfg.Catalog.Path)
		if err != nil {
			logger.Error("failed to load criteria catalog", "path", cfg.Catalog.Path, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("criteria catalog loaded", "criteria", cat.Len())

	// Database (optional)
	var db store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		db = store.NewCachedStore(pg, cfg.CacheTTL(), cfg.CacheCleanup())
		defer db.Close()
		logger.Info("connected to database", "cache_ttl", cfg.CacheTTL())
	} else {
		logger.Info("no database configured, company endpoints disabled")
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

	opts, err := engineOptions(cfg)
	if err != nil {
		logger.Error("invalid scoring config", "error", err)
		os.Exit(1)
	}
	engine := scoring.NewEngine(opts, logger)
	m := metrics.New(prometheus.DefaultRegisterer)

	svc := analysis.NewService(engine, cat, db, hermesClient, m, opts.Threshold, logger)
	svc.SetupSubscriptions()

	// API server
	router := api.NewRouter(svc, cat, db, opts.Threshold, cfg.Server.RateLimitPerMinute, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(prometheus.DefaultGatherer),
		ReadHeaderTimeout: 10 * time.Second,
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

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Logging.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func engineOptions(cfg *config.Config) (scoring.EngineOptions, error) {
	wm, err := scoring.ParseWeightMethod(cfg.Scoring.WeightMethod)
	if err != nil {
		return scoring.EngineOptions{}, err
	}
	if _, err := scoring.IntensityByName(cfg.Scoring.Intensity); err != nil {
		return scoring.EngineOptions{}, err
	}
	policy, err := scoring.ParseConsistencyPolicy(cfg.Scoring.ConsistencyPolicy)
	if err != nil {
		return scoring.EngineOptions{}, err
	}
	return scoring.EngineOptions{
		WeightMethod: wm,
		Intensity:    cfg.Scoring.Intensity,
		Policy:       policy,
		Threshold:    cfg.Scoring.ConsistencyThreshold,
		Lambda:       cfg.Scoring.DefaultLambda,
	}, nil
}
