package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rollbook/internal/api"
	"rollbook/internal/app"
	"rollbook/internal/auth"
	"rollbook/internal/cloudinary"
	"rollbook/internal/config"
	"rollbook/internal/logging"
	"rollbook/internal/observability"
	"rollbook/internal/queue"
	"rollbook/internal/worker"
)

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

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, lg.Base); err != nil {
		lg.Base.Fatal("http server failed", zap.Error(err))
	}
}

func runHTTP(cfg config.App, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := app.Open(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer svc.Close()

	q, closeQueue, err := app.OpenQueue(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeQueue()

	// A memory queue has no consumer outside this process.
	if _, ok := q.(*queue.InMemory); ok {
		w := worker.New(q, svc.Attendance, cfg.ExportDir, uploader(cfg, lg), lg.Named("worker"))
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("embedded worker stopped", zap.Error(err))
			}
		}()
	}

	r := api.NewRouter(api.Deps{
		Accounts:        svc.Accounts,
		Codes:           svc.Codes,
		Attendance:      svc.Attendance,
		Issuer:          auth.NewIssuer(cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL),
		Queue:           q,
		Log:             lg,
		Health:          app.Health(svc, q, lg),
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting server", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	lg.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Warn("server forced shutdown", zap.Error(err))
	}
	lg.Info("server exited")
	return nil
}

func uploader(cfg config.App, lg *zap.Logger) worker.Uploader {
	if !cfg.CloudinaryEnabled() {
		lg.Info("cloudinary not configured, exports stay local")
		return nil
	}
	lg.Info("cloudinary configured", zap.String("cloud", cfg.CloudinaryCloudName))
	return cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
}
