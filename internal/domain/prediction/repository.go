package prediction

import "context"

// Repository stores predictions. Upsert replaces any stored prediction with
// the same (player, match) key. ListByPlayer returns every gameweek when
// gameweek is nil.
type Repository interface {
	Upsert(ctx context.Context, items ...Prediction) error
	ListByPlayer(ctx context.Context, playerID string, gameweek *int) ([]Prediction, error)
}
