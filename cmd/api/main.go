package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	leaderboardsvc "github.com/bouncegame/bounce/src/app/leaderboard"
	infraleaderboard "github.com/bouncegame/bounce/src/infra/leaderboard"
	"github.com/bouncegame/bounce/src/infra/logging"
	"github.com/bouncegame/bounce/src/infra/telemetry"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	baseCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	shutdownTelemetry, err := telemetry.Setup(baseCtx, "bounce-api", telemetry.Options{
		Endpoint: cfg.OTelEndpoint,
		Enabled:  cfg.OTelEnabled,
	})
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTelemetry(ctx)
		}()
	}

	leaderboardService := leaderboardsvc.NewService(newRepository(cfg.StorePath), logger)
	if err := leaderboardService.Initialize(baseCtx); err != nil {
		logger.Fatal("failed to initialize leaderboard store", zap.String("path", cfg.StorePath), zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server := NewServer(ServerConfig{
		Logger:             logger,
		LeaderboardService: leaderboardService,
		StaticDir:          cfg.StaticDir,
		Registry:           registry,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		localURL, lanURL := accessURLs(cfg.HTTPAddress)
		logger.Info("leaderboard server listening",
			zap.String("addr", cfg.HTTPAddress),
			zap.String("local_url", localURL),
			zap.String("network_url", lanURL),
			zap.String("leaderboard_url", localURL+"/leaderboard"),
			zap.String("store", cfg.StorePath),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-baseCtx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newRepository(storePath string) leaderboardsvc.Repository {
	if storePath == memoryStore {
		return infraleaderboard.NewMemoryRepository()
	}
	return infraleaderboard.NewFileRepository(storePath)
}
