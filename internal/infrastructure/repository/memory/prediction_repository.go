package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
)

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[prediction.Key]prediction.Prediction
}

func NewPredictionRepository(seed ...prediction.Prediction) *PredictionRepository {
	items := make(map[prediction.Key]prediction.Prediction, len(seed))
	for _, item := range seed {
		items[item.Key()] = item
	}
	return &PredictionRepository{items: items}
}

func (r *PredictionRepository) Upsert(_ context.Context, items ...prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[item.Key()] = item
	}
	return nil
}

func (r *PredictionRepository) ListByPlayer(_ context.Context, playerID string, gameweek *int) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if item.PlayerID != playerID {
			continue
		}
		if gameweek != nil && item.Gameweek != *gameweek {
			continue
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Gameweek != out[j].Gameweek {
			return out[i].Gameweek < out[j].Gameweek
		}
		return out[i].MatchID < out[j].MatchID
	})
	return out, nil
}
