package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/domain/player"
	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
	"github.com/riskibarqy/gameweek-picks/internal/domain/scoring"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
)

const defaultScoringMaxConcurrency = 4

type MatchOutcome struct {
	Match   match.Match
	Outcome match.Outcome
}

type GameweekOutcomes struct {
	Gameweek  int
	Matches   []MatchOutcome
	Available bool
}

type GameweekScores struct {
	Gameweek   int
	Weekly     []scoring.ScoreEntry
	Cumulative []scoring.ScoreEntry
	// UnavailableGameweeks lists gameweeks whose outcomes could not be fetched
	// and were counted as unknown.
	UnavailableGameweeks []int
}

type ScoringService struct {
	repo           prediction.Repository
	provider       MatchProvider
	roster         player.Roster
	gameweekCount  int
	maxConcurrency int
	fetchTimeout   time.Duration
	logger         *logging.Logger
}

func NewScoringService(
	repo prediction.Repository,
	provider MatchProvider,
	roster player.Roster,
	gameweekCount int,
	maxConcurrency int,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	if gameweekCount <= 0 {
		gameweekCount = DefaultGameweekCount
	}
	if maxConcurrency <= 0 {
		maxConcurrency = defaultScoringMaxConcurrency
	}
	return &ScoringService{
		repo:           repo,
		provider:       provider,
		roster:         roster,
		gameweekCount:  gameweekCount,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// WithFetchTimeout bounds the time one request spends fetching outcomes.
// Gameweeks not fetched in time are reported unavailable and score zero.
// Zero disables the bound.
func (s *ScoringService) WithFetchTimeout(timeout time.Duration) *ScoringService {
	s.fetchTimeout = max(timeout, 0)
	return s
}

func (s *ScoringService) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.fetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.fetchTimeout)
}

// OutcomesByGameweek resolves every match of a gameweek. Matches with broken
// score data are logged and reported as UNKNOWN.
func (s *ScoringService) OutcomesByGameweek(ctx context.Context, gameweek int) (GameweekOutcomes, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.OutcomesByGameweek")
	defer span.End()

	if err := validateGameweek(gameweek, s.gameweekCount); err != nil {
		return GameweekOutcomes{}, err
	}

	fetchCtx, cancel := s.fetchContext(ctx)
	matches, outcomes, ok := s.resolveGameweek(fetchCtx, gameweek)
	cancel()
	if err := ctx.Err(); err != nil {
		return GameweekOutcomes{}, err
	}
	result := GameweekOutcomes{
		Gameweek:  gameweek,
		Matches:   make([]MatchOutcome, 0, len(matches)),
		Available: ok,
	}
	sortMatches(matches)
	for _, item := range matches {
		result.Matches = append(result.Matches, MatchOutcome{Match: item, Outcome: outcomes[item.ID]})
	}
	return result, nil
}

// GameweekScores scores one gameweek and the running total through it.
// Outcomes of earlier gameweeks are fetched concurrently, and only for
// gameweeks somebody predicted.
func (s *ScoringService) GameweekScores(ctx context.Context, gameweek int) (GameweekScores, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GameweekScores")
	defer span.End()

	if err := validateGameweek(gameweek, s.gameweekCount); err != nil {
		return GameweekScores{}, err
	}

	players := s.roster.IDs()
	predictions, err := s.listPredictions(ctx, players)
	if err != nil {
		return GameweekScores{}, err
	}

	outcomes, unavailable, err := s.outcomesThrough(ctx, gameweek, predictions)
	if err != nil {
		return GameweekScores{}, err
	}

	weekly := scoring.Score(players, predictions, outcomes, &gameweek)
	cumulative := scoring.Cumulative(players, predictions, outcomes, gameweek)

	return GameweekScores{
		Gameweek:             gameweek,
		Weekly:               scoring.Rank(weekly, gameweek),
		Cumulative:           scoring.Rank(cumulative, gameweek),
		UnavailableGameweeks: unavailable,
	}, nil
}

func (s *ScoringService) listPredictions(ctx context.Context, players []string) ([]prediction.Prediction, error) {
	out := make([]prediction.Prediction, 0, len(players)*10)
	for _, playerID := range players {
		items, err := s.repo.ListByPlayer(ctx, playerID, nil)
		if err != nil {
			return nil, fmt.Errorf("list predictions for player=%s: %w", playerID, err)
		}
		out = append(out, items...)
	}
	return out, nil
}

type gameweekResolution struct {
	gameweek  int
	outcomes  map[int64]match.Outcome
	available bool
}

func (s *ScoringService) outcomesThrough(ctx context.Context, through int, predictions []prediction.Prediction) (map[int64]match.Outcome, []int, error) {
	wanted := make(map[int]struct{})
	for _, item := range predictions {
		if item.Gameweek >= 1 && item.Gameweek <= through {
			wanted[item.Gameweek] = struct{}{}
		}
	}

	fetchCtx, cancel := s.fetchContext(ctx)
	defer cancel()

	p := pool.NewWithResults[gameweekResolution]().
		WithContext(fetchCtx).
		WithMaxGoroutines(s.maxConcurrency)
	for gw := range wanted {
		gw := gw
		p.Go(func(ctx context.Context) (gameweekResolution, error) {
			_, outcomes, ok := s.resolveGameweek(ctx, gw)
			return gameweekResolution{gameweek: gw, outcomes: outcomes, available: ok}, nil
		})
	}
	results, err := p.Wait()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve outcomes: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	merged := make(map[int64]match.Outcome)
	unavailable := make([]int, 0)
	for _, row := range results {
		if !row.available {
			unavailable = append(unavailable, row.gameweek)
		}
		for id, outcome := range row.outcomes {
			merged[id] = outcome
		}
	}
	sort.Ints(unavailable)
	return merged, unavailable, nil
}

// resolveGameweek never fails: provider errors yield no outcomes and
// available=false, broken scores are logged and left UNKNOWN.
func (s *ScoringService) resolveGameweek(ctx context.Context, gameweek int) ([]match.Match, map[int64]match.Outcome, bool) {
	matches, err := s.provider.ListMatches(ctx, gameweek)
	if err != nil {
		s.logger.WarnContext(ctx, "match provider unavailable, treating outcomes as unknown",
			"gameweek", gameweek,
			"error", err,
		)
		return []match.Match{}, map[int64]match.Outcome{}, false
	}

	outcomes, dataErrs := match.ResolveAll(matches)
	for _, dataErr := range dataErrs {
		s.logger.WarnContext(ctx, "match score data unusable, outcome set to unknown",
			"gameweek", gameweek,
			"error", dataErr,
		)
	}
	return matches, outcomes, true
}
