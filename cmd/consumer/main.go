package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/reservas/internal/config"
	"github.com/iliyamo/reservas/internal/logger"
	"github.com/iliyamo/reservas/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if cfg.AMQPURL == "" {
		log.Error("AMQP_URL is required for the audit consumer")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := queue.NewAuditConsumer(cfg.AMQPURL, cfg.EventsQueue, cfg.AuditLogPath, log)
	log.Info("audit consumer started", "queue", cfg.EventsQueue, "log_path", cfg.AuditLogPath)
	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("audit consumer stopped", "error", err)
		os.Exit(1)
	}
	log.Info("audit consumer shut down gracefully")
}
