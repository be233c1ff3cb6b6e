// Command fakeapi serves all six backend services from one seeded in-memory
// store, for local development and demos. Point every *_API variable at
// http://localhost:$FAKEAPI_PORT/api/<service>.
package main

import (
	"context"
	"os"
	"time"

	"finboard/internal/cli"
	"finboard/internal/fakeapi"
	"finboard/internal/remote/memory"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ttl := 24 * time.Hour
	if v := os.Getenv("FAKEAPI_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			logger.Error("Invalid FAKEAPI_TOKEN_TTL", "error", err, "value", v)
			os.Exit(1)
		}
		ttl = d
	}

	srv := fakeapi.New(fakeapi.Options{
		Store:     memory.NewSeeded(),
		JWTSecret: os.Getenv("FAKEAPI_JWT_SECRET"),
		TokenTTL:  ttl,
		Logger:    logger,

		RequestsPerMinute: cfg.FakeAPIRateLimit,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	addr := fakeapi.Addr(cfg.FakeAPIPort)
	logger.Info("Starting fake API", "addr", addr,
		"demo_user", memory.DemoUsername)
	if err := srv.Start(addr); err != nil {
		logger.Error("Server error", "error", err, "addr", addr)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
