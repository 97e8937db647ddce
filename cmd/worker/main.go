package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/createconomy/createconomy/internal/db"
	"github.com/createconomy/createconomy/internal/worker"
	"github.com/createconomy/createconomy/pkg/config"
	"github.com/createconomy/createconomy/pkg/logging"
	"github.com/createconomy/createconomy/pkg/telemetry"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Createconomy Maintenance Worker")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())

	// Run until interrupted
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down worker...")
		cancel()
	}()

	w := worker.New(&cfg.Worker, database)
	if err := w.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal("Worker failed", zap.Error(err))
	}

	logger.Info("Worker exited")
}
