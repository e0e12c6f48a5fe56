package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/domain/player"
	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
)

type PickInput struct {
	MatchID int64
	Label   string
}

type SubmitPredictionsInput struct {
	PlayerID string
	Gameweek int
	Picks    []PickInput
}

type PredictionService struct {
	repo          prediction.Repository
	provider      MatchProvider
	roster        player.Roster
	gameweekCount int
	logger        *logging.Logger
	now           func() time.Time
}

func NewPredictionService(
	repo prediction.Repository,
	provider MatchProvider,
	roster player.Roster,
	gameweekCount int,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	if gameweekCount <= 0 {
		gameweekCount = DefaultGameweekCount
	}
	return &PredictionService{
		repo:          repo,
		provider:      provider,
		roster:        roster,
		gameweekCount: gameweekCount,
		logger:        logger,
		now:           time.Now,
	}
}

// Submit validates and stores a player's picks for one gameweek. A pick for a
// match the player already predicted replaces the stored label. Match ids are
// checked against the gameweek's fixtures when the provider is reachable.
func (s *PredictionService) Submit(ctx context.Context, input SubmitPredictionsInput) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	playerID := strings.TrimSpace(input.PlayerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if !s.roster.Contains(playerID) {
		return nil, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	if err := validateGameweek(input.Gameweek, s.gameweekCount); err != nil {
		return nil, err
	}
	if len(input.Picks) == 0 {
		return nil, fmt.Errorf("%w: at least one pick is required", ErrInvalidInput)
	}

	submittedAt := s.now().UTC()
	items := make([]prediction.Prediction, 0, len(input.Picks))
	seen := make(map[int64]struct{}, len(input.Picks))
	for _, pick := range input.Picks {
		if pick.MatchID <= 0 {
			return nil, fmt.Errorf("%w: match id must be positive", ErrInvalidInput)
		}
		if _, dup := seen[pick.MatchID]; dup {
			return nil, fmt.Errorf("%w: duplicate pick for match=%d", ErrInvalidInput, pick.MatchID)
		}
		seen[pick.MatchID] = struct{}{}

		label, err := match.ParseLabel(pick.Label)
		if err != nil {
			return nil, fmt.Errorf("%w: match=%d: %v", ErrInvalidInput, pick.MatchID, err)
		}
		items = append(items, prediction.Prediction{
			PlayerID:    playerID,
			Gameweek:    input.Gameweek,
			MatchID:     pick.MatchID,
			Label:       label,
			SubmittedAt: submittedAt,
		})
	}

	if err := s.checkMatchesInGameweek(ctx, input.Gameweek, seen); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, items...); err != nil {
		return nil, fmt.Errorf("upsert predictions: %w", err)
	}

	s.logger.InfoContext(ctx, "predictions submitted",
		"player_id", playerID,
		"gameweek", input.Gameweek,
		"count", len(items),
	)
	return items, nil
}

func (s *PredictionService) checkMatchesInGameweek(ctx context.Context, gameweek int, matchIDs map[int64]struct{}) error {
	if s.provider == nil {
		return nil
	}

	matches, err := s.provider.ListMatches(ctx, gameweek)
	if err != nil {
		s.logger.WarnContext(ctx, "skip fixture membership check, match provider unavailable",
			"gameweek", gameweek,
			"error", err,
		)
		return nil
	}

	known := make(map[int64]struct{}, len(matches))
	for _, item := range matches {
		known[item.ID] = struct{}{}
	}
	for id := range matchIDs {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: match=%d is not part of gameweek %d", ErrInvalidInput, id, gameweek)
		}
	}
	return nil
}

// ListByPlayer returns a player's stored predictions ordered by gameweek and
// match id. A nil gameweek returns every gameweek.
func (s *PredictionService) ListByPlayer(ctx context.Context, playerID string, gameweek *int) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListByPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if !s.roster.Contains(playerID) {
		return nil, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	if gameweek != nil {
		if err := validateGameweek(*gameweek, s.gameweekCount); err != nil {
			return nil, err
		}
	}

	items, err := s.repo.ListByPlayer(ctx, playerID, gameweek)
	if err != nil {
		return nil, fmt.Errorf("list predictions by player: %w", err)
	}
	sortPredictions(items)
	return items, nil
}

func sortPredictions(items []prediction.Prediction) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Gameweek != items[j].Gameweek {
			return items[i].Gameweek < items[j].Gameweek
		}
		if items[i].PlayerID != items[j].PlayerID {
			return items[i].PlayerID < items[j].PlayerID
		}
		return items[i].MatchID < items[j].MatchID
	})
}
