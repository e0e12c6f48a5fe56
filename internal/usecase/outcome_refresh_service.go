package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
)

const (
	refreshStatusSuccess = "success"
	refreshStatusFailed  = "failed"

	defaultRefreshWorkers = 2
)

type RefreshOutcomesInput struct {
	From    int
	Through int
}

type GameweekRefreshResult struct {
	Gameweek   int    `json:"gameweek"`
	Status     string `json:"status"`
	Matches    int    `json:"matches"`
	Finished   int    `json:"finished"`
	Unknown    int    `json:"unknown"`
	DataErrors int    `json:"data_errors"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type RefreshOutcomesResult struct {
	From         int                     `json:"from"`
	Through      int                     `json:"through"`
	SuccessCount int                     `json:"success_count"`
	FailedCount  int                     `json:"failed_count"`
	Gameweeks    []GameweekRefreshResult `json:"gameweeks"`
}

// OutcomeRefreshService pulls gameweeks from the provider ahead of scoring
// requests so the provider cache is warm.
type OutcomeRefreshService struct {
	provider      MatchProvider
	gameweekCount int
	workers       int
	logger        *logging.Logger
}

func NewOutcomeRefreshService(provider MatchProvider, gameweekCount, workers int, logger *logging.Logger) *OutcomeRefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	if gameweekCount <= 0 {
		gameweekCount = DefaultGameweekCount
	}
	if workers <= 0 {
		workers = defaultRefreshWorkers
	}
	return &OutcomeRefreshService{
		provider:      provider,
		gameweekCount: gameweekCount,
		workers:       workers,
		logger:        logger,
	}
}

func (s *OutcomeRefreshService) Refresh(ctx context.Context, input RefreshOutcomesInput) (RefreshOutcomesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OutcomeRefreshService.Refresh")
	defer span.End()

	from := input.From
	if from == 0 {
		from = 1
	}
	through := input.Through
	if through == 0 {
		through = s.gameweekCount
	}
	if err := validateGameweek(from, s.gameweekCount); err != nil {
		return RefreshOutcomesResult{}, err
	}
	if err := validateGameweek(through, s.gameweekCount); err != nil {
		return RefreshOutcomesResult{}, err
	}
	if from > through {
		return RefreshOutcomesResult{}, fmt.Errorf("%w: from=%d is after through=%d", ErrInvalidInput, from, through)
	}

	result := RefreshOutcomesResult{
		From:      from,
		Through:   through,
		Gameweeks: make([]GameweekRefreshResult, 0, through-from+1),
	}

	workerCount := s.workers
	if total := through - from + 1; workerCount > total {
		workerCount = total
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshOutcomesResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	rows := make(chan GameweekRefreshResult, through-from+1)
	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for gw := from; gw <= through; gw++ {
		gw := gw
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.refreshGameweek(ctx, gw)
			if row.Status == refreshStatusSuccess {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return RefreshOutcomesResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Gameweeks = append(result.Gameweeks, row)
	}
	sort.Slice(result.Gameweeks, func(i, j int) bool {
		return result.Gameweeks[i].Gameweek < result.Gameweeks[j].Gameweek
	})
	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "outcome refresh finished",
		"from", from,
		"through", through,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func (s *OutcomeRefreshService) refreshGameweek(ctx context.Context, gameweek int) GameweekRefreshResult {
	start := time.Now()
	row := GameweekRefreshResult{Gameweek: gameweek}

	matches, err := s.provider.ListMatches(ctx, gameweek)
	row.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		row.Status = refreshStatusFailed
		row.Message = err.Error()
		s.logger.WarnContext(ctx, "refresh gameweek outcomes failed", "gameweek", gameweek, "error", err)
		return row
	}

	outcomes, dataErrs := match.ResolveAll(matches)
	for _, dataErr := range dataErrs {
		s.logger.WarnContext(ctx, "match score data unusable, outcome set to unknown",
			"gameweek", gameweek,
			"error", dataErr,
		)
	}
	row.Status = refreshStatusSuccess
	row.Matches = len(matches)
	row.DataErrors = len(dataErrs)
	for _, item := range matches {
		if item.IsFinished() {
			row.Finished++
		}
		if !outcomes[item.ID].Known() {
			row.Unknown++
		}
	}
	return row
}
