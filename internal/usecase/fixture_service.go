package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
)

type GameweekFixtures struct {
	Gameweek  int
	Matches   []match.Match
	Available bool
}

type FixtureService struct {
	provider      MatchProvider
	gameweekCount int
	logger        *logging.Logger
}

func NewFixtureService(provider MatchProvider, gameweekCount int, logger *logging.Logger) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	if gameweekCount <= 0 {
		gameweekCount = DefaultGameweekCount
	}
	return &FixtureService{
		provider:      provider,
		gameweekCount: gameweekCount,
		logger:        logger,
	}
}

// ListByGameweek returns the fixtures of a gameweek ordered by kickoff. When
// the provider cannot be reached the result is empty with Available=false.
func (s *FixtureService) ListByGameweek(ctx context.Context, gameweek int) (GameweekFixtures, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListByGameweek")
	defer span.End()

	if err := validateGameweek(gameweek, s.gameweekCount); err != nil {
		return GameweekFixtures{}, err
	}

	matches, err := s.provider.ListMatches(ctx, gameweek)
	if err != nil {
		if !errors.Is(err, ErrDependencyUnavailable) && ctx.Err() != nil {
			return GameweekFixtures{}, ctx.Err()
		}
		s.logger.WarnContext(ctx, "match provider unavailable, returning empty fixture list",
			"gameweek", gameweek,
			"error", err,
		)
		return GameweekFixtures{Gameweek: gameweek, Matches: []match.Match{}}, nil
	}

	sortMatches(matches)
	return GameweekFixtures{
		Gameweek:  gameweek,
		Matches:   matches,
		Available: true,
	}, nil
}

func sortMatches(matches []match.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].KickoffAt.Equal(matches[j].KickoffAt) {
			return matches[i].KickoffAt.Before(matches[j].KickoffAt)
		}
		return matches[i].ID < matches[j].ID
	})
}
