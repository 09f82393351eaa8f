// Command orchestrator boots the session-orchestrator HTTP API: it connects
// to PostgreSQL, runs migrations, wires the oracle client and orchestrator
// service, and serves the HTTP surface over echo v5.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/icfp25/aedificium/pkg/api"
	"github.com/icfp25/aedificium/pkg/cleanup"
	"github.com/icfp25/aedificium/pkg/config"
	"github.com/icfp25/aedificium/pkg/database"
	"github.com/icfp25/aedificium/pkg/oracle"
	"github.com/icfp25/aedificium/pkg/orchestrator"
	"github.com/icfp25/aedificium/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	envFile := flag.String("env-file", getEnv("ENV_FILE", ".env"), "Path to a .env file")
	httpPort := flag.String("http-port", getEnv("HTTP_PORT", "8080"), "HTTP port to listen on")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		slog.Warn("could not load env file, continuing with existing environment", "path", *envFile, "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *httpPort != "" {
		cfg.HTTPPort = *httpPort
	}

	slog.Info("starting orchestrator", "version", version.Full(), "http_port", cfg.HTTPPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := database.NewClient(cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("error closing database client", "error", err)
		}
	}()
	slog.Info("connected to PostgreSQL database")

	oracleClient := oracle.New(cfg.UpstreamBaseURL, cfg.UpstreamToken)
	svc := orchestrator.New(dbClient, oracleClient)
	server := api.NewServer(dbClient, svc)

	janitor := cleanup.NewService(cfg.Retention, dbClient)
	janitor.Start(ctx)
	defer janitor.Stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", ":"+cfg.HTTPPort)
		if err := server.Start(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		slog.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
}
