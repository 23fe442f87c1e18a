package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pkcegen/internal/app"
	"pkcegen/internal/cfg"
	"pkcegen/pkg/logger"
)

func main() {
	config, err := cfg.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog := logger.NewZeroLog(config.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := app.NewProvider(ctx, config, zlog)
	if err != nil {
		zlog.Error(ctx, "failed to initialize provider", logger.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}

	server := app.NewServer(provider)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zlog.Error(ctx, "server stopped", logger.Field{Key: "error", Value: err.Error()})
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error(shutdownCtx, "graceful shutdown failed", logger.Field{Key: "error", Value: err.Error()})
	}
	if err := provider.Close(shutdownCtx); err != nil {
		zlog.Error(shutdownCtx, "resource cleanup failed", logger.Field{Key: "error", Value: err.Error()})
	}
}
