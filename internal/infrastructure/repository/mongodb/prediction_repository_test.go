package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
)

func TestPredictionRepository_Upsert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("writes all picks in one bulk call", func(mt *mtest.T) {
		repo := NewPredictionRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.Upsert(context.Background(),
			prediction.Prediction{PlayerID: "Abel", Gameweek: 1, MatchID: 10, Label: match.OutcomeHome},
			prediction.Prediction{PlayerID: "Abel", Gameweek: 1, MatchID: 11, Label: match.OutcomeAway},
		)
		require.NoError(t, err)

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "update", started.CommandName)
	})

	mt.Run("empty input skips the round trip", func(mt *mtest.T) {
		repo := NewPredictionRepository(mt.Coll)
		require.NoError(t, repo.Upsert(context.Background()))
		assert.Nil(t, mt.GetStartedEvent())
	})

	mt.Run("write error is returned", func(mt *mtest.T) {
		repo := NewPredictionRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "duplicate key",
			Name:    "DuplicateKey",
		}))

		err := repo.Upsert(context.Background(), prediction.Prediction{PlayerID: "Siem", Gameweek: 2, MatchID: 20, Label: match.OutcomeTie})
		assert.Error(t, err)
	})
}

func TestPredictionRepository_ListByPlayer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes documents", func(mt *mtest.T) {
		repo := NewPredictionRepository(mt.Coll)
		submitted := time.Date(2025, 8, 14, 18, 30, 0, 0, time.UTC)
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "player_id", Value: "Kubrom"},
				{Key: "gameweek", Value: 3},
				{Key: "match_id", Value: int64(300)},
				{Key: "label", Value: "TIE"},
				{Key: "submitted_at", Value: primitive.NewDateTimeFromTime(submitted)},
			},
			bson.D{
				{Key: "player_id", Value: "Kubrom"},
				{Key: "gameweek", Value: 3},
				{Key: "match_id", Value: int64(301)},
				{Key: "label", Value: "AWAY"},
				{Key: "submitted_at", Value: primitive.NewDateTimeFromTime(submitted)},
			},
		))

		gw := 3
		got, err := repo.ListByPlayer(context.Background(), "Kubrom", &gw)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(300), got[0].MatchID)
		assert.Equal(t, match.OutcomeTie, got[0].Label)
		assert.Equal(t, match.OutcomeAway, got[1].Label)
		assert.True(t, got[0].SubmittedAt.Equal(submitted))
	})

	mt.Run("no documents", func(mt *mtest.T) {
		repo := NewPredictionRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+mt.Coll.Name(), mtest.FirstBatch))

		got, err := repo.ListByPlayer(context.Background(), "Abel", nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestPredictionRepository_EnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates indexes", func(mt *mtest.T) {
		repo := NewPredictionRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(t, repo.EnsureIndexes(context.Background()))
		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "createIndexes", started.CommandName)
	})
}
