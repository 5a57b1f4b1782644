package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/codec25/Studio-flow/internal/app"
	"github.com/codec25/Studio-flow/internal/config"
	"github.com/codec25/Studio-flow/internal/httpserver"
	"github.com/codec25/Studio-flow/internal/lock"
	"github.com/codec25/Studio-flow/internal/service"
	"github.com/codec25/Studio-flow/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting studioflow",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer cleanup()

	locker, err := buildLocker(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize locker", zap.Error(err))
	}

	studio := service.NewStudio(ctx, st, locker, logger)

	scheduler := app.NewScheduler(studio, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := httpserver.New(cfg.HTTPAddr, studio, logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.Error("HTTP server failed", zap.Error(err))
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Stopped")
}

// buildStore picks Postgres when a DSN is configured, the local JSON file
// otherwise. The Postgres path runs migrations before serving.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, func(), error) {
	if cfg.DBDSN == "" {
		fs, err := store.NewFileStore(cfg.StatePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using file store", zap.String("path", cfg.StatePath))
		return fs, func() {}, nil
	}

	pg, err := store.NewPostgresStore(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}

	migrator, err := app.NewMigrator(pg.Pool(), cfg.MigrationsPath)
	if err != nil {
		pg.Close()
		return nil, nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	version, err := migrator.Version(ctx)
	if err != nil {
		pg.Close()
		return nil, nil, err
	}
	logger.Info("Using postgres store", zap.Int64("migration_version", version))

	return pg, pg.Close, nil
}

// buildLocker prefers Redis when configured so several replicas can share
// the account and slot locks.
func buildLocker(cfg *config.Config, logger *zap.Logger) (lock.Locker, error) {
	if cfg.RedisAddr == "" {
		logger.Info("Using in-process locks")
		return lock.NewLocalLocker(), nil
	}

	locker, err := lock.NewRedisLocker(cfg.RedisAddr)
	if err != nil {
		return nil, err
	}
	logger.Info("Using redis locks", zap.String("addr", cfg.RedisAddr))
	return locker, nil
}
