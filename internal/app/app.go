package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/gameweek-picks/external/footballdata"
	"github.com/riskibarqy/gameweek-picks/internal/config"
	"github.com/riskibarqy/gameweek-picks/internal/domain/player"
	cacherepo "github.com/riskibarqy/gameweek-picks/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/gameweek-picks/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/gameweek-picks/internal/platform/cache"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
	"github.com/riskibarqy/gameweek-picks/internal/usecase"
)

// Services holds the use cases shared by the HTTP API and the MCP server.
type Services struct {
	Players     *usecase.PlayerService
	Fixtures    *usecase.FixtureService
	Predictions *usecase.PredictionService
	Scoring     *usecase.ScoringService
	Refresh     *usecase.OutcomeRefreshService
}

// NewServices builds the provider, the prediction store and the use cases on
// top of them. The returned close func releases the store connection.
func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	roster := player.NewRoster(cfg.Players)
	if roster.Len() == 0 {
		return nil, nil, fmt.Errorf("player roster cannot be empty")
	}

	if cfg.FootballDataToken == "" {
		logger.Warn("FOOTBALL_API_KEY is empty, football-data.org requests will be rejected")
	}
	client := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:        cfg.FootballDataBaseURL,
		Token:          cfg.FootballDataToken,
		Competition:    cfg.FootballDataCompetition,
		Season:         cfg.FootballDataSeason,
		Timeout:        cfg.FootballDataTimeout,
		MaxRetries:     cfg.FootballDataMaxRetries,
		RatePerMinute:  cfg.FootballDataRatePerMinute,
		Logger:         logger,
		CircuitBreaker: cfg.FootballDataCircuit,
	})

	var (
		provider        usecase.MatchProvider = client
		refreshProvider usecase.MatchProvider = client
	)
	if cfg.CacheEnabled {
		cached := cacherepo.NewMatchProvider(client, basecache.NewStore(cfg.CacheTTL), cfg.CacheFinishedTTL)
		provider = cached
		refreshProvider = cached.Refreshing()
	}

	repo, closeRepo, err := openPredictionRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("services ready",
		"players", roster.Len(),
		"gameweeks", cfg.GameweekCount,
		"prediction_store", cfg.PredictionStore,
		"competition", cfg.FootballDataCompetition,
		"season", cfg.FootballDataSeason,
		"cache_enabled", cfg.CacheEnabled,
	)

	scoring := usecase.NewScoringService(repo, provider, roster, cfg.GameweekCount, cfg.ScoringMaxConcurrency, logger).
		WithFetchTimeout(cfg.ScoringFetchTimeout)

	return &Services{
		Players:     usecase.NewPlayerService(roster),
		Fixtures:    usecase.NewFixtureService(provider, cfg.GameweekCount, logger),
		Predictions: usecase.NewPredictionService(repo, provider, roster, cfg.GameweekCount, logger),
		Scoring:     scoring,
		Refresh:     usecase.NewOutcomeRefreshService(refreshProvider, cfg.GameweekCount, cfg.RefreshWorkers, logger),
	}, closeRepo, nil
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if services == nil {
		return nil, fmt.Errorf("services cannot be nil")
	}

	handler := httpapi.NewHandler(
		services.Players,
		services.Fixtures,
		services.Predictions,
		services.Scoring,
		services.Refresh,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
