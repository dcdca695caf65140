package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storyhub/internal/config"
	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/server"
	"storyhub/internal/observability"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	appLog, err := logger.New(cfg.GoEnv, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, appLog, observability.TracingConfig{
		Enabled:     cfg.TracingEnabled,
		ServiceName: "storyhub-api",
		Environment: cfg.GoEnv,
		Endpoint:    cfg.TracingEndpoint,
		SampleRatio: cfg.TracingSampleRatio,
	})
	if err != nil {
		appLog.Fatal("tracing init failed", "error", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	// 2. Connect to the database (and Redis when configured)
	deps, cleanup, err := server.Bootstrap(ctx, cfg, appLog)
	if err != nil {
		appLog.Fatal("bootstrap failed", "error", err)
	}
	defer cleanup()

	// 3. Setup Gin
	router := server.NewRouter(deps, server.NewServices(deps))

	if err := server.Run(ctx, router, cfg.HTTPPort, cfg.RequestTimeout, appLog); err != nil {
		appLog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	appLog.Info("server stopped")
}
