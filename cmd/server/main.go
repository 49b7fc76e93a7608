package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/finsent-io/finsent/config"
	"github.com/finsent-io/finsent/internal/classifiers"
	"github.com/finsent-io/finsent/internal/clients"
	"github.com/finsent-io/finsent/internal/logging"
	"github.com/finsent-io/finsent/internal/monitoring"
	"github.com/finsent-io/finsent/internal/sentiment"
	"github.com/finsent-io/finsent/internal/server"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg := config.LoadSettings()

	agg, err := classifiers.BuildEnsemble(cfg)
	if err != nil {
		slog.Error("[Main] Failed to build ensemble",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	decomposer := sentiment.NewDecomposer(agg, sentiment.DefaultTaxonomy())

	var cache server.ScoreCache
	if cfg.ValkeyAddress != "" {
		scoreCache, err := clients.NewScoreCache(cfg)
		if err != nil {
			slog.Warn("[Main] Score cache unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			defer scoreCache.Close()
			cache = scoreCache
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthy := &atomic.Bool{}
	healthy.Store(true)
	go monitoring.MonitorEnsembleHealth(ctx, agg, healthy)

	srv := server.New(agg, decomposer, cache, healthy)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Routes(),
	}

	go func() {
		slog.Info("[Main] Starting HTTP server",
			slog.String("port", cfg.Port),
			slog.Any("models", agg.ModelNames()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] HTTP server failed",
				slog.String("error", err.Error()))
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}

	slog.Info("[Main] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed",
			slog.String("error", err.Error()))
	}
}
