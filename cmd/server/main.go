package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirasaad/payflow/infra/initializer"
	"github.com/amirasaad/payflow/pkg/app"
	"github.com/amirasaad/payflow/pkg/config"
	"github.com/amirasaad/payflow/webapi"
	log "github.com/charmbracelet/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.Default()
	cfg, err := config.LoadAppConfig(logger)
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger = deps.Logger

	a := app.New(deps)

	// Start the settlement workers before accepting traffic.
	deps.Queue.Process(a.PaymentService.Process)

	fiberApp := webapi.SetupApp(a)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "env", cfg.Env, "address", cfg.Server.Addr)
		errCh <- fiberApp.Listen(cfg.Server.Addr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if err := deps.Queue.Shutdown(ctx); err != nil {
		logger.Error("queue shutdown failed", "error", err)
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
