package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
	qb "github.com/riskibarqy/gameweek-picks/internal/platform/querybuilder"
)

const predictionUpsertSuffix = `ON CONFLICT (player_id, match_id) WHERE deleted_at IS NULL
DO UPDATE SET
    gameweek = EXCLUDED.gameweek,
    label = EXCLUDED.label,
    submitted_at = EXCLUDED.submitted_at,
    updated_at = NOW()`

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Upsert(ctx context.Context, items ...prediction.Prediction) error {
	if len(items) == 0 {
		return nil
	}

	query, args, err := buildUpsertPredictionsQuery(items)
	if err != nil {
		return fmt.Errorf("build upsert predictions query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert predictions: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ListByPlayer(ctx context.Context, playerID string, gameweek *int) ([]prediction.Prediction, error) {
	query, args, err := buildListPredictionsQuery(playerID, gameweek)
	if err != nil {
		return nil, fmt.Errorf("build select predictions by player query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select predictions by player: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.Prediction{
			PlayerID:    row.PlayerID,
			Gameweek:    row.Gameweek,
			MatchID:     row.MatchID,
			Label:       match.Outcome(row.Label),
			SubmittedAt: row.SubmittedAt.UTC(),
		})
	}
	return out, nil
}

// buildUpsertPredictionsQuery writes all items in one statement. Postgres
// rejects an upsert touching the same row twice, so only the last item per
// (player, match) is kept.
func buildUpsertPredictionsQuery(items []prediction.Prediction) (string, []any, error) {
	lastIndex := make(map[prediction.Key]int, len(items))
	for i, item := range items {
		lastIndex[item.Key()] = i
	}

	models := make([]any, 0, len(lastIndex))
	for i, item := range items {
		if lastIndex[item.Key()] != i {
			continue
		}
		models = append(models, predictionInsertModel{
			PlayerID:    item.PlayerID,
			Gameweek:    item.Gameweek,
			MatchID:     item.MatchID,
			Label:       string(item.Label),
			SubmittedAt: item.SubmittedAt.UTC(),
		})
	}
	return qb.InsertModels("predictions", models, predictionUpsertSuffix)
}

func buildListPredictionsQuery(playerID string, gameweek *int) (string, []any, error) {
	conditions := []qb.Condition{qb.Eq("player_id", playerID)}
	if gameweek != nil {
		conditions = append(conditions, qb.Eq("gameweek", *gameweek))
	}
	conditions = append(conditions, qb.IsNull("deleted_at"))

	return qb.Select("*").
		From("predictions").
		Where(conditions...).
		OrderBy("gameweek", "match_id").
		ToSQL()
}
