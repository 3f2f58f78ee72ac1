package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"rollbook/internal/app"
	"rollbook/internal/cloudinary"
	"rollbook/internal/config"
	"rollbook/internal/logging"
	"rollbook/internal/observability"
	"rollbook/internal/worker"
)

// Worker consumes attendance events and keeps the monthly export current.
func main() {
	cfg := config.Load()

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer lg.Closer()
	for _, w := range cfg.Warnings {
		lg.Base.Warn("config", zap.String("warning", w))
	}

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		lg.Base.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.QueueBackend != "redis" {
		lg.Base.Fatal("standalone worker needs QUEUE_BACKEND=redis; the API runs an embedded worker for memory queues")
	}

	svc, err := app.Open(ctx, cfg, lg.Base)
	if err != nil {
		lg.Base.Fatal("store open failed", zap.Error(err))
	}
	defer svc.Close()

	q, closeQueue, err := app.OpenQueue(ctx, cfg, lg.Base)
	if err != nil {
		lg.Base.Fatal("queue open failed", zap.Error(err))
	}
	defer closeQueue()

	var up worker.Uploader
	if cfg.CloudinaryEnabled() {
		up = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	}

	w := worker.New(q, svc.Attendance, cfg.ExportDir, up, lg.Base)
	if err := w.Refresh(ctx); err != nil {
		lg.Base.Warn("initial export failed", zap.Error(err))
	}
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Base.Error("worker failed", zap.Error(err))
	}
}
