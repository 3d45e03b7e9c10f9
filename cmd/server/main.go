package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/api"
	"github.com/Harshitk-cp/lifedash/internal/buildconfig"
	"github.com/Harshitk-cp/lifedash/internal/config"
	"github.com/Harshitk-cp/lifedash/internal/store"
	"go.uber.org/zap"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := store.Open(ctx, store.Options{
		Backend:     config.StoreBackend(),
		BadgerPath:  config.BadgerPath(),
		DatabaseURL: config.DatabaseURL(),
	}, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("backend", config.StoreBackend()), zap.Error(err))
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Error("failed to close store", zap.Error(err))
		}
	}()
	logger.Info("store opened", zap.String("backend", config.StoreBackend()))

	app := api.NewApp(kv, logger, api.OptionsFromConfig())

	// Start background services
	app.Snapshots.Start()
	go app.Limiter.RunCleanup(ctx)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr), zap.String("version", buildconfig.Version()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	// Stop background services
	app.Snapshots.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
