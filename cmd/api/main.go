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
	"github.com/riskibarqy/gameweek-picks/internal/observability"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	pprofSrv := observability.StartPprofServer(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, closeServices, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}

	srv, err := app.NewHTTPServer(cfg, services, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exitCode := 0
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		exitCode = 1
	}
	if err := closeServices(shutdownCtx); err != nil {
		logger.Warn("close prediction store failed", "error", err)
	}
	if err := observability.StopPprofServer(shutdownCtx, pprofSrv, logger); err != nil {
		logger.Warn("stop pprof server failed", "error", err)
	}
	if err := stopProfiler(); err != nil {
		logger.Warn("stop pyroscope failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("shutdown uptrace failed", "error", err)
	}

	logger.Info("http server stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
