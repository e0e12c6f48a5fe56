package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
)

func TestBuildUpsertPredictionsQuery_KeepsLastPickPerMatch(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	query, args, err := buildUpsertPredictionsQuery([]prediction.Prediction{
		{PlayerID: "Abel", Gameweek: 1, MatchID: 10, Label: match.OutcomeHome, SubmittedAt: at},
		{PlayerID: "Abel", Gameweek: 1, MatchID: 11, Label: match.OutcomeAway, SubmittedAt: at},
		{PlayerID: "Abel", Gameweek: 1, MatchID: 10, Label: match.OutcomeTie, SubmittedAt: at},
	})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	wantPrefix := "INSERT INTO predictions (player_id, gameweek, match_id, label, submitted_at) VALUES ($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10) ON CONFLICT (player_id, match_id)"
	if !strings.HasPrefix(query, wantPrefix) {
		t.Fatalf("unexpected query:\nwant prefix: %s\ngot:         %s", wantPrefix, query)
	}
	if !strings.Contains(query, "label = EXCLUDED.label") {
		t.Fatalf("expected label to be updated on conflict: %s", query)
	}
	if len(args) != 10 {
		t.Fatalf("expected 10 args, got %d", len(args))
	}
	if args[2] != int64(11) || args[3] != "AWAY" {
		t.Fatalf("expected first row to be match 11, got %v", args[:5])
	}
	if args[7] != int64(10) || args[8] != "TIE" {
		t.Fatalf("expected last pick for match 10 to win, got %v", args[5:])
	}
}

func TestBuildListPredictionsQuery(t *testing.T) {
	t.Parallel()

	query, args, err := buildListPredictionsQuery("Siem", nil)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	want := "SELECT * FROM predictions WHERE player_id = $1 AND deleted_at IS NULL ORDER BY gameweek, match_id"
	if query != want || len(args) != 1 || args[0] != "Siem" {
		t.Fatalf("unexpected query: %s %v", query, args)
	}

	gw := 7
	query, args, err = buildListPredictionsQuery("Siem", &gw)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	want = "SELECT * FROM predictions WHERE player_id = $1 AND gameweek = $2 AND deleted_at IS NULL ORDER BY gameweek, match_id"
	if query != want || len(args) != 2 || args[1] != 7 {
		t.Fatalf("unexpected query: %s %v", query, args)
	}
}
