package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
)

const (
	PredictionsCollection     = "predictions"
	predictionUniqueIndexName = "player_match_unique"
	predictionGameweekIdxName = "player_gameweek"
)

type predictionDocument struct {
	PlayerID    string    `bson:"player_id"`
	Gameweek    int       `bson:"gameweek"`
	MatchID     int64     `bson:"match_id"`
	Label       string    `bson:"label"`
	SubmittedAt time.Time `bson:"submitted_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type PredictionRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewPredictionRepository(coll *mongo.Collection) *PredictionRepository {
	return &PredictionRepository{coll: coll, now: time.Now}
}

// EnsureIndexes creates the unique (player_id, match_id) index that backs
// upserts, plus a lookup index on (player_id, gameweek).
func (r *PredictionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "player_id", Value: 1}, {Key: "match_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(predictionUniqueIndexName),
		},
		{
			Keys:    bson.D{{Key: "player_id", Value: 1}, {Key: "gameweek", Value: 1}},
			Options: options.Index().SetName(predictionGameweekIdxName),
		},
	})
	if err != nil {
		return fmt.Errorf("create prediction indexes: %w", err)
	}
	return nil
}

func (r *PredictionRepository) Upsert(ctx context.Context, items ...prediction.Prediction) error {
	if len(items) == 0 {
		return nil
	}

	now := r.now().UTC()
	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		doc := predictionDocument{
			PlayerID:    item.PlayerID,
			Gameweek:    item.Gameweek,
			MatchID:     item.MatchID,
			Label:       string(item.Label),
			SubmittedAt: item.SubmittedAt.UTC(),
			UpdatedAt:   now,
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "player_id", Value: item.PlayerID}, {Key: "match_id", Value: item.MatchID}}).
			SetUpdate(bson.D{{Key: "$set", Value: doc}}).
			SetUpsert(true))
	}

	// Ordered so a repeated (player, match) within one call resolves to the last item.
	if _, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("upsert predictions: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ListByPlayer(ctx context.Context, playerID string, gameweek *int) ([]prediction.Prediction, error) {
	filter := bson.D{{Key: "player_id", Value: playerID}}
	if gameweek != nil {
		filter = append(filter, bson.E{Key: "gameweek", Value: *gameweek})
	}
	opts := options.Find().SetSort(bson.D{{Key: "gameweek", Value: 1}, {Key: "match_id", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find predictions by player: %w", err)
	}

	var docs []predictionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(docs))
	for _, doc := range docs {
		out = append(out, prediction.Prediction{
			PlayerID:    doc.PlayerID,
			Gameweek:    doc.Gameweek,
			MatchID:     doc.MatchID,
			Label:       match.Outcome(doc.Label),
			SubmittedAt: doc.SubmittedAt.UTC(),
		})
	}
	return out, nil
}
