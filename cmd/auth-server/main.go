package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"

	auth "github.com/goliatone/go-client-auth"
	"github.com/goliatone/go-client-auth/config"
	"github.com/goliatone/go-client-auth/internal/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		newLogger(os.Stderr, "error").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("auth server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger auth.Logger) error {
	service, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer service.Close()

	if cfg.ServeLambda() {
		logger.Info("auth server handling lambda events", "runtime", cfg.Runtime)
		lambda.StartWithOptions(service.Lambda(), lambda.WithContext(ctx))
		return nil
	}

	return service.Listen(ctx)
}
