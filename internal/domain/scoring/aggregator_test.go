package scoring

import (
	"reflect"
	"testing"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
)

func gwPtr(v int) *int { return &v }

func intPtr(v int) *int { return &v }

func TestScore_AbelAndSiemExample(t *testing.T) {
	t.Parallel()

	outcome, err := match.Resolve(match.Match{
		ID:        10,
		Gameweek:  1,
		Status:    match.StatusFinished,
		HomeGoals: intPtr(3),
		AwayGoals: intPtr(1),
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	predictions := []prediction.Prediction{
		{PlayerID: "Abel", Gameweek: 1, MatchID: 10, Label: match.OutcomeHome},
		{PlayerID: "Siem", Gameweek: 1, MatchID: 10, Label: match.OutcomeAway},
	}
	got := Score([]string{"Abel", "Siem"}, predictions, map[int64]match.Outcome{10: outcome}, gwPtr(1))

	want := map[string]int{"Abel": 1, "Siem": 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected scores: got=%v want=%v", got, want)
	}
}

func TestScore_PlayersWithoutPredictionsScoreZero(t *testing.T) {
	t.Parallel()

	players := []string{"Biniam A", "Biniam G", "Kubrom"}
	got := Score(players, nil, map[int64]match.Outcome{1: match.OutcomeHome}, gwPtr(3))

	if len(got) != len(players) {
		t.Fatalf("expected every player in result, got %v", got)
	}
	for _, id := range players {
		if points, ok := got[id]; !ok || points != 0 {
			t.Fatalf("expected %s to score 0, got %d (present=%v)", id, points, ok)
		}
	}
}

func TestScore_UnknownAndMissingOutcomesScoreZero(t *testing.T) {
	t.Parallel()

	predictions := []prediction.Prediction{
		{PlayerID: "Abel", Gameweek: 2, MatchID: 1, Label: match.OutcomeHome},
		{PlayerID: "Abel", Gameweek: 2, MatchID: 2, Label: match.OutcomeTie},
		{PlayerID: "Abel", Gameweek: 2, MatchID: 3, Label: match.OutcomeUnknown},
		{PlayerID: "Outsider", Gameweek: 2, MatchID: 4, Label: match.OutcomeAway},
	}
	outcomes := map[int64]match.Outcome{
		1: match.OutcomeUnknown,
		3: match.OutcomeUnknown,
		4: match.OutcomeAway,
	}

	got := Score([]string{"Abel"}, predictions, outcomes, gwPtr(2))
	if !reflect.DeepEqual(got, map[string]int{"Abel": 0}) {
		t.Fatalf("unexpected scores: %v", got)
	}
}

func TestScore_IsIdempotent(t *testing.T) {
	t.Parallel()

	players := []string{"Abel", "Siem"}
	predictions := []prediction.Prediction{
		{PlayerID: "Abel", Gameweek: 1, MatchID: 1, Label: match.OutcomeHome},
		{PlayerID: "Siem", Gameweek: 1, MatchID: 1, Label: match.OutcomeHome},
		{PlayerID: "Siem", Gameweek: 1, MatchID: 2, Label: match.OutcomeTie},
	}
	outcomes := map[int64]match.Outcome{1: match.OutcomeHome, 2: match.OutcomeTie}

	first := Score(players, predictions, outcomes, gwPtr(1))
	second := Score(players, predictions, outcomes, gwPtr(1))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %v and %v", first, second)
	}
	if first["Siem"] != 2 || first["Abel"] != 1 {
		t.Fatalf("unexpected scores: %v", first)
	}
}

func TestScore_NilGameweekCountsEveryWeek(t *testing.T) {
	t.Parallel()

	predictions := []prediction.Prediction{
		{PlayerID: "Abel", Gameweek: 1, MatchID: 1, Label: match.OutcomeHome},
		{PlayerID: "Abel", Gameweek: 5, MatchID: 50, Label: match.OutcomeAway},
	}
	outcomes := map[int64]match.Outcome{1: match.OutcomeHome, 50: match.OutcomeAway}

	if got := Score([]string{"Abel"}, predictions, outcomes, nil)["Abel"]; got != 2 {
		t.Fatalf("expected 2 points across all weeks, got %d", got)
	}
	if got := Score([]string{"Abel"}, predictions, outcomes, gwPtr(5))["Abel"]; got != 1 {
		t.Fatalf("expected 1 point in week 5, got %d", got)
	}
}

func TestCumulative_EqualsSumOfWeeks(t *testing.T) {
	t.Parallel()

	players := []string{"Abel"}
	predictions := []prediction.Prediction{
		{PlayerID: "Abel", Gameweek: 1, MatchID: 100, Label: match.OutcomeHome},
		{PlayerID: "Abel", Gameweek: 2, MatchID: 200, Label: match.OutcomeAway},
	}
	outcomes := map[int64]match.Outcome{100: match.OutcomeTie, 200: match.OutcomeAway}

	week1 := Score(players, predictions, outcomes, gwPtr(1))["Abel"]
	week2 := Score(players, predictions, outcomes, gwPtr(2))["Abel"]
	total := Cumulative(players, predictions, outcomes, 2)["Abel"]

	if week1 != 0 || week2 != 1 {
		t.Fatalf("unexpected weekly scores: week1=%d week2=%d", week1, week2)
	}
	if total != week1+week2 || total != 1 {
		t.Fatalf("expected cumulative 1, got %d", total)
	}
	if got := Cumulative(players, predictions, outcomes, 1)["Abel"]; got != 0 {
		t.Fatalf("expected cumulative through week 1 to be 0, got %d", got)
	}
}

func TestCumulative_ZeroPlayersIsEmpty(t *testing.T) {
	t.Parallel()

	got := Cumulative(nil, []prediction.Prediction{{PlayerID: "Abel", Gameweek: 1, MatchID: 1, Label: match.OutcomeHome}}, map[int64]match.Outcome{1: match.OutcomeHome}, 38)
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestRank_SharesPositionsOnTies(t *testing.T) {
	t.Parallel()

	got := Rank(map[string]int{"Siem": 3, "Abel": 3, "Kubrom": 5, "Biniam A": 0}, 4)
	want := []ScoreEntry{
		{Gameweek: 4, PlayerID: "Kubrom", Points: 5, Rank: 1},
		{Gameweek: 4, PlayerID: "Abel", Points: 3, Rank: 2},
		{Gameweek: 4, PlayerID: "Siem", Points: 3, Rank: 2},
		{Gameweek: 4, PlayerID: "Biniam A", Points: 0, Rank: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected ranking:\n got=%+v\nwant=%+v", got, want)
	}
}
