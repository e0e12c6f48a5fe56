package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PredictionStore != StoreMemory {
		t.Fatalf("unexpected PredictionStore: %q", cfg.PredictionStore)
	}
	if cfg.GameweekCount != 38 {
		t.Fatalf("unexpected GameweekCount: %d", cfg.GameweekCount)
	}
	if len(cfg.Players) != 6 || cfg.Players[0] != "Biniam A" {
		t.Fatalf("unexpected default players: %v", cfg.Players)
	}
	if cfg.FootballDataCompetition != "PL" || cfg.FootballDataSeason != 2025 {
		t.Fatalf("unexpected provider defaults: %s/%d", cfg.FootballDataCompetition, cfg.FootballDataSeason)
	}
	if cfg.FootballDataRatePerMinute != 10 {
		t.Fatalf("unexpected FootballDataRatePerMinute: %d", cfg.FootballDataRatePerMinute)
	}
	if !cfg.FootballDataCircuit.Enabled || cfg.FootballDataCircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected circuit defaults: %+v", cfg.FootballDataCircuit)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %v", cfg.LogLevel)
	}
	if cfg.ScoringFetchTimeout != 10*time.Second || cfg.ScoringFetchTimeout >= cfg.WriteTimeout {
		t.Fatalf("unexpected ScoringFetchTimeout: %s (write timeout %s)", cfg.ScoringFetchTimeout, cfg.WriteTimeout)
	}
}

func TestLoad_ScoringFetchTimeoutMustFitWriteTimeout(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_WRITE_TIMEOUT", "5s")
	t.Setenv("SCORING_FETCH_TIMEOUT", "5s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SCORING_FETCH_TIMEOUT is not shorter than APP_WRITE_TIMEOUT")
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_PlayersFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PLAYERS", " Abel , Siem,,Abel ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Players) != 3 || cfg.Players[0] != "Abel" || cfg.Players[1] != "Siem" {
		t.Fatalf("unexpected players: %v", cfg.Players)
	}
}

func TestLoad_PredictionStoreValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PREDICTION_STORE", "redis")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported PREDICTION_STORE")
	}
}

func TestLoad_GameweekCountMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("GAMEWEEK_COUNT", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for GAMEWEEK_COUNT=0")
	}
}

func TestLoad_ProdRequiresInternalJobToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when INTERNAL_JOB_TOKEN is empty in prod")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "uptrace-dsn=\"https://token@api.uptrace.dev?grpc=4317\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_FootballDataOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FOOTBALL_DATA_BASE_URL", "http://localhost:9999/v4/")
	t.Setenv("FOOTBALL_DATA_COMPETITION", "pd")
	t.Setenv("FOOTBALL_DATA_TIMEOUT", "3s")
	t.Setenv("FOOTBALL_DATA_CIRCUIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FootballDataBaseURL != "http://localhost:9999/v4" {
		t.Fatalf("unexpected FootballDataBaseURL: %q", cfg.FootballDataBaseURL)
	}
	if cfg.FootballDataCompetition != "PD" {
		t.Fatalf("unexpected FootballDataCompetition: %q", cfg.FootballDataCompetition)
	}
	if cfg.FootballDataTimeout != 3*time.Second {
		t.Fatalf("unexpected FootballDataTimeout: %s", cfg.FootballDataTimeout)
	}
	if cfg.FootballDataCircuit.Enabled {
		t.Fatalf("expected circuit breaker disabled")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_TTL", "-1s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative CACHE_TTL")
	}
}
