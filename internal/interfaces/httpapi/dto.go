package httpapi

import (
	"time"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
	"github.com/riskibarqy/gameweek-picks/internal/domain/scoring"
	"github.com/riskibarqy/gameweek-picks/internal/usecase"
)

type submitPredictionsRequest struct {
	PlayerID string        `json:"player_id" validate:"required,max=64"`
	Picks    []pickRequest `json:"picks" validate:"required,min=1,max=20,dive"`
}

type pickRequest struct {
	MatchID int64  `json:"match_id" validate:"required,gt=0"`
	Label   string `json:"label" validate:"required"`
}

type refreshOutcomesRequest struct {
	From    int `json:"from" validate:"gte=0"`
	Through int `json:"through" validate:"gte=0"`
}

type playerDTO struct {
	ID string `json:"id"`
}

type matchDTO struct {
	ID        int64  `json:"id"`
	Gameweek  int    `json:"gameweek"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	Status    string `json:"status"`
	HomeGoals *int   `json:"homeGoals"`
	AwayGoals *int   `json:"awayGoals"`
	KickoffAt string `json:"kickoffAt,omitempty"`
}

type gameweekFixturesDTO struct {
	Gameweek  int        `json:"gameweek"`
	Available bool       `json:"available"`
	Matches   []matchDTO `json:"matches"`
}

type matchOutcomeDTO struct {
	matchDTO
	Outcome string `json:"outcome"`
}

type gameweekOutcomesDTO struct {
	Gameweek  int               `json:"gameweek"`
	Available bool              `json:"available"`
	Matches   []matchOutcomeDTO `json:"matches"`
}

type predictionDTO struct {
	PlayerID    string `json:"playerId"`
	Gameweek    int    `json:"gameweek"`
	MatchID     int64  `json:"matchId"`
	Label       string `json:"label"`
	SubmittedAt string `json:"submittedAt"`
}

type scoreEntryDTO struct {
	PlayerID string `json:"playerId"`
	Points   int    `json:"points"`
	Rank     int    `json:"rank"`
}

type gameweekScoresDTO struct {
	Gameweek             int             `json:"gameweek"`
	Weekly               []scoreEntryDTO `json:"weekly"`
	Cumulative           []scoreEntryDTO `json:"cumulative"`
	UnavailableGameweeks []int           `json:"unavailableGameweeks"`
}

func matchToDTO(v match.Match) matchDTO {
	out := matchDTO{
		ID:        v.ID,
		Gameweek:  v.Gameweek,
		HomeTeam:  v.HomeTeam,
		AwayTeam:  v.AwayTeam,
		Status:    string(v.Status),
		HomeGoals: v.HomeGoals,
		AwayGoals: v.AwayGoals,
	}
	if !v.KickoffAt.IsZero() {
		out.KickoffAt = v.KickoffAt.UTC().Format(time.RFC3339)
	}
	return out
}

func fixturesToDTO(v usecase.GameweekFixtures) gameweekFixturesDTO {
	matches := make([]matchDTO, 0, len(v.Matches))
	for _, item := range v.Matches {
		matches = append(matches, matchToDTO(item))
	}
	return gameweekFixturesDTO{
		Gameweek:  v.Gameweek,
		Available: v.Available,
		Matches:   matches,
	}
}

func outcomesToDTO(v usecase.GameweekOutcomes) gameweekOutcomesDTO {
	matches := make([]matchOutcomeDTO, 0, len(v.Matches))
	for _, item := range v.Matches {
		matches = append(matches, matchOutcomeDTO{
			matchDTO: matchToDTO(item.Match),
			Outcome:  item.Outcome.String(),
		})
	}
	return gameweekOutcomesDTO{
		Gameweek:  v.Gameweek,
		Available: v.Available,
		Matches:   matches,
	}
}

func predictionToDTO(v prediction.Prediction) predictionDTO {
	return predictionDTO{
		PlayerID:    v.PlayerID,
		Gameweek:    v.Gameweek,
		MatchID:     v.MatchID,
		Label:       v.Label.String(),
		SubmittedAt: v.SubmittedAt.UTC().Format(time.RFC3339),
	}
}

func scoreEntriesToDTO(entries []scoring.ScoreEntry) []scoreEntryDTO {
	out := make([]scoreEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, scoreEntryDTO{
			PlayerID: entry.PlayerID,
			Points:   entry.Points,
			Rank:     entry.Rank,
		})
	}
	return out
}

func scoresToDTO(v usecase.GameweekScores) gameweekScoresDTO {
	unavailable := v.UnavailableGameweeks
	if unavailable == nil {
		unavailable = []int{}
	}
	return gameweekScoresDTO{
		Gameweek:             v.Gameweek,
		Weekly:               scoreEntriesToDTO(v.Weekly),
		Cumulative:           scoreEntriesToDTO(v.Cumulative),
		UnavailableGameweeks: unavailable,
	}
}
