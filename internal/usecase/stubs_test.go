package usecase

import (
	"context"
	"sync"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
)

type stubMatchProvider struct {
	mu      sync.Mutex
	matches map[int][]match.Match
	errs    map[int]error
	calls   map[int]int
}

func newStubMatchProvider() *stubMatchProvider {
	return &stubMatchProvider{
		matches: make(map[int][]match.Match),
		errs:    make(map[int]error),
		calls:   make(map[int]int),
	}
}

func (s *stubMatchProvider) ListMatches(_ context.Context, gameweek int) ([]match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[gameweek]++
	if err := s.errs[gameweek]; err != nil {
		return nil, err
	}
	return append([]match.Match(nil), s.matches[gameweek]...), nil
}

func (s *stubMatchProvider) callCount(gameweek int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[gameweek]
}

type stubPredictionRepo struct {
	mu    sync.Mutex
	items []prediction.Prediction
	err   error
}

func (s *stubPredictionRepo) Upsert(_ context.Context, items ...prediction.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, items...)
	return nil
}

func (s *stubPredictionRepo) ListByPlayer(_ context.Context, playerID string, gameweek *int) ([]prediction.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]prediction.Prediction, 0)
	for _, item := range s.items {
		if item.PlayerID != playerID {
			continue
		}
		if gameweek != nil && item.Gameweek != *gameweek {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func intPtr(v int) *int { return &v }

func finished(id int64, gameweek, home, away int) match.Match {
	return match.Match{
		ID:        id,
		Gameweek:  gameweek,
		Status:    match.StatusFinished,
		HomeGoals: intPtr(home),
		AwayGoals: intPtr(away),
	}
}

func scheduled(id int64, gameweek int) match.Match {
	return match.Match{ID: id, Gameweek: gameweek, Status: match.StatusScheduled}
}
