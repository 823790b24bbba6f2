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
	"github.com/bookmarks-rocks/api/internal/email"
	"github.com/bookmarks-rocks/api/internal/health"
	"github.com/bookmarks-rocks/api/internal/infrastructure/postgres"
	ctxlog "github.com/bookmarks-rocks/api/internal/log"
	"github.com/bookmarks-rocks/api/internal/metadata"
	"github.com/bookmarks-rocks/api/internal/metrics"
	"github.com/bookmarks-rocks/api/internal/token"
	httptransport "github.com/bookmarks-rocks/api/internal/transport/http"
	"github.com/bookmarks-rocks/api/internal/transport/http/handler"
	"github.com/bookmarks-rocks/api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	// Optional Redis-backed metadata cache for the sync refresh path.
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

	// Users & auth
	userRepo := postgres.NewUserRepository(pool)
	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL())
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	authUsecase := usecase.NewAuthUsecase(userRepo, tokens, sender, logger)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Bookmarks
	bookmarkRepo := postgres.NewBookmarkRepository(pool)
	bookmarkUsecase := usecase.NewBookmarkUsecase(bookmarkRepo, fetcher, logger)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, redisPing, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, bookmarkHandler, tokens, userRepo),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
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
