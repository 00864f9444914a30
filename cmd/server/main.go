package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iliyamo/reservas/internal/config"
	"github.com/iliyamo/reservas/internal/handler"
	"github.com/iliyamo/reservas/internal/logger"
	"github.com/iliyamo/reservas/internal/metrics"
	"github.com/iliyamo/reservas/internal/middleware"
	"github.com/iliyamo/reservas/internal/queue"
	"github.com/iliyamo/reservas/internal/repository"
	"github.com/iliyamo/reservas/internal/router"
	"github.com/iliyamo/reservas/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		// the store starts empty, so anything cached by a previous run is stale
		if n, err := middleware.InvalidateCache(ctx, rdb, cfg.Cache.Prefix); err != nil {
			log.Warn("failed to flush response cache", "error", err)
		} else {
			log.Info("connected to redis", "addr", cfg.Redis.Addr, "flushed_keys", n)
		}
	} else if cfg.Redis.Addr != "" {
		log.Warn("redis unreachable, caching disabled and rate limiting in-process", "addr", cfg.Redis.Addr)
	}

	m := metrics.NewReservationMetrics(prometheus.DefaultRegisterer)

	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		amqpPub := queue.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue, log)
		defer func() { _ = amqpPub.Close() }()
		publisher = amqpPub
		log.Info("publishing reservation events", "queue", cfg.EventsQueue)
	}

	repo := repository.NewMemoryReservationRepo()
	svc := service.NewReservationService(repo, publisher, m, log)
	h := handler.NewReservationHandler(svc, log)

	e := router.New(h, router.Options{
		Logger:         log,
		CORSOrigins:    cfg.CORSAllowOrigins,
		Redis:          rdb,
		Cache:          cfg.Cache,
		RateLimit:      cfg.RateLimit,
		Metrics:        m,
		Gatherer:       prometheus.DefaultGatherer,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	go func() {
		log.Info("server listening", "addr", cfg.Addr(), "env", cfg.Env)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
