package app

import (
	"context"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/riskibarqy/gameweek-picks/internal/config"
	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
	"github.com/riskibarqy/gameweek-picks/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/gameweek-picks/internal/infrastructure/repository/mongodb"
	"github.com/riskibarqy/gameweek-picks/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

func noopClose(context.Context) error { return nil }

func openPredictionRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (prediction.Repository, func(context.Context) error, error) {
	switch cfg.PredictionStore {
	case config.StorePostgres:
		return openPostgresRepository(ctx, cfg, logger)
	case config.StoreMongo:
		return openMongoRepository(ctx, cfg, logger)
	case config.StoreMemory, "":
		logger.Warn("using in-memory prediction store, predictions are lost on restart")
		return memory.NewPredictionRepository(), noopClose, nil
	default:
		return nil, nil, fmt.Errorf("unsupported prediction store %q", cfg.PredictionStore)
	}
}

func openPostgresRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (prediction.Repository, func(context.Context) error, error) {
	dbName := dbNameFromURL(cfg.DBURL)
	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}

	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary, cfg.ServiceName), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB, opts...)

	logger.Info("prediction store ready", "store", config.StorePostgres, "db_name", dbName)
	return postgres.NewPredictionRepository(db), func(context.Context) error { return db.Close() }, nil
}

func openMongoRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (prediction.Repository, func(context.Context) error, error) {
	client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		return nil, nil, err
	}

	repo := mongodb.NewPredictionRepository(client.Database(cfg.MongoDatabase).Collection(mongodb.PredictionsCollection))
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	logger.Info("prediction store ready", "store", config.StoreMongo, "database", cfg.MongoDatabase)
	return repo, client.Disconnect, nil
}
