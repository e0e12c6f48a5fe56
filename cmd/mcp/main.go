package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/gameweek-picks/internal/app"
	"github.com/riskibarqy/gameweek-picks/internal/config"
	"github.com/riskibarqy/gameweek-picks/internal/interfaces/mcpapi"
	"github.com/riskibarqy/gameweek-picks/internal/observability"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName+"-mcp", "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if cfg.MCPAPIKey == "" && cfg.AppEnv == config.EnvProd {
		logger.Error("MCP_API_KEY is required when APP_ENV=prod")
		os.Exit(1)
	}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, closeServices, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}

	server, registry := mcpapi.NewServer(mcpapi.Services{
		Players:     services.Players,
		Fixtures:    services.Fixtures,
		Predictions: services.Predictions,
		Scoring:     services.Scoring,
	}, cfg.ServiceVersion, logger)

	srv := &http.Server{
		Addr:              cfg.MCPHTTPAddr,
		Handler:           mcpapi.NewHTTPHandler(server, registry, cfg.MCPAPIKey),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("mcp server starting", "addr", cfg.MCPHTTPAddr, "tools", len(registry), "auth", cfg.MCPAPIKey != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("mcp server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("mcp graceful shutdown failed", "error", err)
	}
	if err := closeServices(shutdownCtx); err != nil {
		logger.Warn("close prediction store failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("shutdown uptrace failed", "error", err)
	}
	logger.Info("mcp server stopped")
}
