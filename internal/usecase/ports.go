package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
)

// DefaultGameweekCount is the number of gameweeks in a Premier League season.
const DefaultGameweekCount = 38

// MatchProvider lists the fixtures of one gameweek, with scores for finished
// matches. Failures wrap ErrProviderUnavailable.
type MatchProvider interface {
	ListMatches(ctx context.Context, gameweek int) ([]match.Match, error)
}

func validateGameweek(gameweek, count int) error {
	if count <= 0 {
		count = DefaultGameweekCount
	}
	if gameweek < 1 || gameweek > count {
		return fmt.Errorf("%w: gameweek must be between 1 and %d", ErrInvalidInput, count)
	}
	return nil
}
