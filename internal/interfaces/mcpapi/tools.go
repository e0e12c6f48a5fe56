package mcpapi

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/domain/scoring"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
)

type ListPlayersArgs struct{}

type GameweekArgs struct {
	Gameweek int `json:"gameweek" jsonschema:"Gameweek number, 1 to 38"`
}

type PlayerPredictionsArgs struct {
	PlayerID string `json:"player_id" jsonschema:"Player name as returned by list_players"`
	Gameweek int    `json:"gameweek,omitempty" jsonschema:"Optional gameweek filter (0 = every gameweek)"`
}

type matchResult struct {
	ID        int64  `json:"id"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	Status    string `json:"status"`
	HomeScore *int   `json:"home_score"`
	AwayScore *int   `json:"away_score"`
	Kickoff   string `json:"kickoff,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
}

type gameweekMatchesResult struct {
	Gameweek  int           `json:"gameweek"`
	Available bool          `json:"available"`
	Matches   []matchResult `json:"matches"`
}

type standingRow struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Points int    `json:"points"`
}

type gameweekScoresResult struct {
	Gameweek             int           `json:"gameweek"`
	Weekly               []standingRow `json:"weekly"`
	Cumulative           []standingRow `json:"cumulative"`
	UnavailableGameweeks []int         `json:"unavailable_gameweeks,omitempty"`
}

type pickResult struct {
	Gameweek    int    `json:"gameweek"`
	MatchID     int64  `json:"match_id"`
	Label       string `json:"label"`
	SubmittedAt string `json:"submitted_at"`
}

type playerPredictionsResult struct {
	Player string       `json:"player"`
	Picks  []pickResult `json:"picks"`
}

type toolSet struct {
	services Services
	logger   *logging.Logger
}

func (t *toolSet) listPlayers(ctx context.Context, _ *mcp.CallToolRequest, _ ListPlayersArgs) (*mcp.CallToolResult, any, error) {
	return toolMarshal(map[string]any{"players": t.services.Players.List(ctx)})
}

func (t *toolSet) gameweekFixtures(ctx context.Context, _ *mcp.CallToolRequest, args GameweekArgs) (*mcp.CallToolResult, any, error) {
	out, err := t.services.Fixtures.ListByGameweek(ctx, args.Gameweek)
	if err != nil {
		return t.toolError(ctx, "gameweek_fixtures", err), nil, nil
	}

	result := gameweekMatchesResult{
		Gameweek:  out.Gameweek,
		Available: out.Available,
		Matches:   make([]matchResult, 0, len(out.Matches)),
	}
	for _, item := range out.Matches {
		result.Matches = append(result.Matches, toMatchResult(item, ""))
	}
	return toolMarshal(result)
}

func (t *toolSet) gameweekOutcomes(ctx context.Context, _ *mcp.CallToolRequest, args GameweekArgs) (*mcp.CallToolResult, any, error) {
	out, err := t.services.Scoring.OutcomesByGameweek(ctx, args.Gameweek)
	if err != nil {
		return t.toolError(ctx, "gameweek_outcomes", err), nil, nil
	}

	result := gameweekMatchesResult{
		Gameweek:  out.Gameweek,
		Available: out.Available,
		Matches:   make([]matchResult, 0, len(out.Matches)),
	}
	for _, item := range out.Matches {
		result.Matches = append(result.Matches, toMatchResult(item.Match, item.Outcome))
	}
	return toolMarshal(result)
}

func (t *toolSet) gameweekScores(ctx context.Context, _ *mcp.CallToolRequest, args GameweekArgs) (*mcp.CallToolResult, any, error) {
	out, err := t.services.Scoring.GameweekScores(ctx, args.Gameweek)
	if err != nil {
		return t.toolError(ctx, "gameweek_scores", err), nil, nil
	}

	return toolMarshal(gameweekScoresResult{
		Gameweek:             out.Gameweek,
		Weekly:               toStandingRows(out.Weekly),
		Cumulative:           toStandingRows(out.Cumulative),
		UnavailableGameweeks: out.UnavailableGameweeks,
	})
}

func (t *toolSet) playerPredictions(ctx context.Context, _ *mcp.CallToolRequest, args PlayerPredictionsArgs) (*mcp.CallToolResult, any, error) {
	var gameweek *int
	if args.Gameweek != 0 {
		gameweek = &args.Gameweek
	}

	items, err := t.services.Predictions.ListByPlayer(ctx, args.PlayerID, gameweek)
	if err != nil {
		return t.toolError(ctx, "player_predictions", err), nil, nil
	}

	result := playerPredictionsResult{Player: args.PlayerID, Picks: make([]pickResult, 0, len(items))}
	for _, item := range items {
		result.Picks = append(result.Picks, pickResult{
			Gameweek:    item.Gameweek,
			MatchID:     item.MatchID,
			Label:       item.Label.String(),
			SubmittedAt: item.SubmittedAt.UTC().Format(time.RFC3339),
		})
	}
	return toolMarshal(result)
}

func toMatchResult(m match.Match, outcome match.Outcome) matchResult {
	out := matchResult{
		ID:        m.ID,
		Home:      m.HomeTeam,
		Away:      m.AwayTeam,
		Status:    string(m.Status),
		HomeScore: m.HomeGoals,
		AwayScore: m.AwayGoals,
	}
	if !m.KickoffAt.IsZero() {
		out.Kickoff = m.KickoffAt.UTC().Format(time.RFC3339)
	}
	if outcome != "" {
		out.Outcome = outcome.String()
	}
	return out
}

func toStandingRows(entries []scoring.ScoreEntry) []standingRow {
	out := make([]standingRow, 0, len(entries))
	for _, entry := range entries {
		out = append(out, standingRow{Rank: entry.Rank, Player: entry.PlayerID, Points: entry.Points})
	}
	return out
}

func (t *toolSet) toolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	t.logger.WarnContext(ctx, "mcp tool failed", "tool", tool, "error", err)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

func toolMarshal(v any) (*mcp.CallToolResult, any, error) {
	body, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(body)},
		},
	}, nil, nil
}
