package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookmarks-rocks/api/config"
	"github.com/bookmarks-rocks/api/internal/enrich"
	"github.com/bookmarks-rocks/api/internal/health"
	"github.com/bookmarks-rocks/api/internal/infrastructure/postgres"
	ctxlog "github.com/bookmarks-rocks/api/internal/log"
	"github.com/bookmarks-rocks/api/internal/metadata"
	"github.com/bookmarks-rocks/api/internal/metrics"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	var fetcher metadata.Source = metadata.NewFetcher(cfg.FetchTimeout())
	var redisPing health.RedisPinger
	if cfg.RedisURL != "" {
		client, err := metadata.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			stop()
			log.Fatalf("redis: %v", err)
		}
		defer func() { _ = client.Close() }()
		fetcher = metadata.NewCachedFetcher(fetcher, client, cfg.CacheTTL(), logger)
		redisPing = health.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	}

	metrics.Register()
	checker := health.NewChecker(pool, redisPing, logger, prometheus.DefaultRegisterer)

	bookmarkRepo := postgres.NewBookmarkRepository(pool)
	fetchLogRepo := postgres.NewFetchLogRepository(pool)

	worker := enrich.NewWorker(
		bookmarkRepo,
		fetchLogRepo,
		fetcher,
		logger,
		cfg.PollInterval(),
		cfg.WorkerCount,
	)
	go worker.Start(ctx)

	// A claim goes stale after three fetch timeouts without completion.
	claimTimeout := 3 * cfg.FetchTimeout()
	reclaimer := enrich.NewReclaimer(bookmarkRepo, logger, 30*time.Second, claimTimeout)
	go reclaimer.Start(ctx)

	refresher, err := enrich.NewRefresher(bookmarkRepo, logger, cfg.RefreshCron, cfg.RefreshAfter())
	if err != nil {
		stop()
		log.Fatalf("refresher: %v", err)
	}
	go refresher.Start(ctx)

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("enricher shut down")
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
