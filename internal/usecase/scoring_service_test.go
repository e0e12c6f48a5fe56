package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/domain/player"
	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
	"github.com/riskibarqy/gameweek-picks/internal/domain/scoring"
)

func pointsByPlayer(entries []scoring.ScoreEntry) map[string]int {
	out := make(map[string]int, len(entries))
	for _, item := range entries {
		out[item.PlayerID] = item.Points
	}
	return out
}

func TestScoringService_GameweekScores_WeeklyAndCumulative(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.matches[1] = []match.Match{finished(100, 1, 1, 1)}
	provider.matches[2] = []match.Match{finished(200, 2, 0, 2)}

	repo := &stubPredictionRepo{items: []prediction.Prediction{
		{PlayerID: "Abel", Gameweek: 1, MatchID: 100, Label: match.OutcomeHome},
		{PlayerID: "Abel", Gameweek: 2, MatchID: 200, Label: match.OutcomeAway},
		{PlayerID: "Siem", Gameweek: 1, MatchID: 100, Label: match.OutcomeTie},
	}}
	service := NewScoringService(repo, provider, player.NewRoster([]string{"Abel", "Siem", "Kubrom"}), 38, 2, nil)

	got, err := service.GameweekScores(context.Background(), 2)
	if err != nil {
		t.Fatalf("gameweek scores: %v", err)
	}

	weekly := pointsByPlayer(got.Weekly)
	if weekly["Abel"] != 1 || weekly["Siem"] != 0 || weekly["Kubrom"] != 0 || len(weekly) != 3 {
		t.Fatalf("unexpected weekly points: %v", weekly)
	}
	cumulative := pointsByPlayer(got.Cumulative)
	if cumulative["Abel"] != 1 || cumulative["Siem"] != 1 || cumulative["Kubrom"] != 0 {
		t.Fatalf("unexpected cumulative points: %v", cumulative)
	}
	if got.Cumulative[0].Rank != 1 || got.Cumulative[1].Rank != 1 || got.Cumulative[2].Rank != 3 {
		t.Fatalf("unexpected cumulative ranks: %+v", got.Cumulative)
	}
	if len(got.UnavailableGameweeks) != 0 {
		t.Fatalf("expected all gameweeks available, got %v", got.UnavailableGameweeks)
	}
}

func TestScoringService_GameweekScores_ProviderDownCountsAsUnknown(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.matches[1] = []match.Match{finished(100, 1, 2, 0)}
	provider.errs[2] = fmt.Errorf("%w: status=500", ErrProviderUnavailable)

	repo := &stubPredictionRepo{items: []prediction.Prediction{
		{PlayerID: "Abel", Gameweek: 1, MatchID: 100, Label: match.OutcomeHome},
		{PlayerID: "Abel", Gameweek: 2, MatchID: 200, Label: match.OutcomeHome},
	}}
	service := NewScoringService(repo, provider, player.NewRoster([]string{"Abel"}), 38, 4, nil)

	got, err := service.GameweekScores(context.Background(), 2)
	if err != nil {
		t.Fatalf("gameweek scores: %v", err)
	}
	if pointsByPlayer(got.Weekly)["Abel"] != 0 {
		t.Fatalf("expected no weekly points while provider is down, got %+v", got.Weekly)
	}
	if pointsByPlayer(got.Cumulative)["Abel"] != 1 {
		t.Fatalf("expected earlier weeks to still count, got %+v", got.Cumulative)
	}
	if len(got.UnavailableGameweeks) != 1 || got.UnavailableGameweeks[0] != 2 {
		t.Fatalf("expected gameweek 2 unavailable, got %v", got.UnavailableGameweeks)
	}
}

func TestScoringService_GameweekScores_OnlyFetchesPredictedGameweeks(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.matches[3] = []match.Match{finished(300, 3, 0, 0)}
	repo := &stubPredictionRepo{items: []prediction.Prediction{
		{PlayerID: "Abel", Gameweek: 3, MatchID: 300, Label: match.OutcomeTie},
		{PlayerID: "Abel", Gameweek: 9, MatchID: 900, Label: match.OutcomeTie},
	}}
	service := NewScoringService(repo, provider, player.NewRoster([]string{"Abel"}), 38, 4, nil)

	if _, err := service.GameweekScores(context.Background(), 5); err != nil {
		t.Fatalf("gameweek scores: %v", err)
	}
	for gw := 1; gw <= 10; gw++ {
		want := 0
		if gw == 3 {
			want = 1
		}
		if got := provider.callCount(gw); got != want {
			t.Fatalf("gameweek=%d expected %d provider calls, got %d", gw, want, got)
		}
	}
}

func TestScoringService_GameweekScores_RepositoryError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("db down")
	service := NewScoringService(&stubPredictionRepo{err: storeErr}, newStubMatchProvider(), player.NewRoster([]string{"Abel"}), 38, 1, nil)

	if _, err := service.GameweekScores(context.Background(), 1); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestScoringService_OutcomesByGameweek_MalformedScoreIsUnknown(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.matches[4] = []match.Match{
		finished(41, 4, 3, 1),
		{ID: 42, Gameweek: 4, Status: match.StatusFinished},
		scheduled(43, 4),
	}
	service := NewScoringService(&stubPredictionRepo{}, provider, player.NewRoster(player.DefaultIDs), 38, 1, nil)

	got, err := service.OutcomesByGameweek(context.Background(), 4)
	if err != nil {
		t.Fatalf("outcomes: %v", err)
	}
	if !got.Available || len(got.Matches) != 3 {
		t.Fatalf("unexpected result: %+v", got)
	}
	want := map[int64]match.Outcome{41: match.OutcomeHome, 42: match.OutcomeUnknown, 43: match.OutcomeUnknown}
	for _, item := range got.Matches {
		if item.Outcome != want[item.Match.ID] {
			t.Fatalf("match=%d expected %s, got %s", item.Match.ID, want[item.Match.ID], item.Outcome)
		}
	}
}

func TestScoringService_OutcomesByGameweek_ProviderDown(t *testing.T) {
	t.Parallel()

	provider := newStubMatchProvider()
	provider.errs[1] = ErrProviderUnavailable
	service := NewScoringService(&stubPredictionRepo{}, provider, player.NewRoster(player.DefaultIDs), 38, 1, nil)

	got, err := service.OutcomesByGameweek(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected provider failure to be tolerated, got %v", err)
	}
	if got.Available || len(got.Matches) != 0 {
		t.Fatalf("expected unavailable empty outcomes, got %+v", got)
	}
}

// slowGameweekProvider blocks on one gameweek until the caller gives up.
type slowGameweekProvider struct {
	*stubMatchProvider
	slow int
}

func (p *slowGameweekProvider) ListMatches(ctx context.Context, gameweek int) ([]match.Match, error) {
	if gameweek == p.slow {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, ctx.Err())
	}
	return p.stubMatchProvider.ListMatches(ctx, gameweek)
}

func TestScoringService_GameweekScores_FetchTimeoutReturnsPartialResult(t *testing.T) {
	t.Parallel()

	stub := newStubMatchProvider()
	stub.matches[1] = []match.Match{finished(100, 1, 2, 0)}
	provider := &slowGameweekProvider{stubMatchProvider: stub, slow: 2}

	repo := &stubPredictionRepo{items: []prediction.Prediction{
		{PlayerID: "Abel", Gameweek: 1, MatchID: 100, Label: match.OutcomeHome},
		{PlayerID: "Abel", Gameweek: 2, MatchID: 200, Label: match.OutcomeAway},
	}}
	service := NewScoringService(repo, provider, player.NewRoster([]string{"Abel"}), 38, 2, nil).
		WithFetchTimeout(50 * time.Millisecond)

	start := time.Now()
	got, err := service.GameweekScores(context.Background(), 2)
	if err != nil {
		t.Fatalf("gameweek scores: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("fetch timeout not applied, took %s", elapsed)
	}
	if len(got.UnavailableGameweeks) != 1 || got.UnavailableGameweeks[0] != 2 {
		t.Fatalf("expected gameweek 2 unavailable, got %v", got.UnavailableGameweeks)
	}
	if pointsByPlayer(got.Cumulative)["Abel"] != 1 {
		t.Fatalf("expected gameweek 1 point to count, got %+v", got.Cumulative)
	}
	if pointsByPlayer(got.Weekly)["Abel"] != 0 {
		t.Fatalf("expected no weekly points for unavailable gameweek, got %+v", got.Weekly)
	}
}
