// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/finboard and cmd/fakeapi.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finboard/internal/backend"
	"finboard/internal/config"
	"finboard/internal/events"
	"finboard/internal/export"
	"finboard/internal/journal"
	"finboard/internal/log"
)

// SetupLogger initializes structured logging at the given level.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(level string) *log.Logger {
	logger := log.New(log.Config{Level: log.ParseLevel(level), Component: log.ComponentApp})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitBackend creates the remote backend selected by the configuration.
// Returns the result or exits the process on failure.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.Result {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize remote backend", "error", err, "backend", bcfg.Type)
		os.Exit(1)
	}
	return result
}

// InitJournal opens the sync journal at the given DSN.
// Returns the journal or exits the process on failure.
func InitJournal(logger *log.Logger, dsn string) *journal.Journal {
	j, err := journal.Open(dsn, journal.WithLogger(logger))
	if err != nil {
		logger.Error("Failed to open sync journal", "error", err, "dsn", dsn)
		os.Exit(1)
	}
	return j
}

// InitEvents connects the change event publisher when AMQP is configured.
// A broker that cannot be reached is logged and replaced by a no-op
// publisher; change events are best effort.
func InitEvents(ctx context.Context, logger *log.Logger, cfg *config.Config) (events.Publisher, func()) {
	if !cfg.EventsEnabled() {
		return events.Nop{}, func() {}
	}
	client, err := events.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
	if err != nil {
		logger.Warn("Change events disabled: broker unavailable", "error", err)
		return events.Nop{}, func() {}
	}
	return client, func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", "error", err)
		}
	}
}

// InitExport creates the report exporter, or nil when no spreadsheet is
// configured.
func InitExport(ctx context.Context, logger *log.Logger, cfg *config.Config) (*export.Client, error) {
	if !cfg.ExportEnabled() {
		return nil, nil
	}
	return export.New(ctx, export.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	}, logger)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup()
		}

		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-time.After(2 * time.Second):
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
