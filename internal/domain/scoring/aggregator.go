package scoring

import (
	"sort"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	"github.com/riskibarqy/gameweek-picks/internal/domain/prediction"
)

// PointsPerCorrectPick is awarded for each prediction matching the resolved outcome.
const PointsPerCorrectPick = 1

// ScoreEntry is a derived leaderboard row. It is computed on demand and never stored.
type ScoreEntry struct {
	Gameweek int
	PlayerID string
	Points   int
	Rank     int
}

// Score tallies points per player. Every roster player is present in the
// result. Predictions from players outside the roster and predictions whose
// match has no known outcome score nothing. When gameweek is nil predictions
// from every gameweek are counted.
func Score(players []string, predictions []prediction.Prediction, outcomes map[int64]match.Outcome, gameweek *int) map[string]int {
	return tally(players, predictions, outcomes, func(gw int) bool {
		return gameweek == nil || gw == *gameweek
	})
}

// Cumulative tallies points over gameweeks 1..through. It equals the sum of
// Score for each gameweek in that range.
func Cumulative(players []string, predictions []prediction.Prediction, outcomes map[int64]match.Outcome, through int) map[string]int {
	return tally(players, predictions, outcomes, func(gw int) bool {
		return gw >= 1 && gw <= through
	})
}

func tally(players []string, predictions []prediction.Prediction, outcomes map[int64]match.Outcome, include func(int) bool) map[string]int {
	out := make(map[string]int, len(players))
	for _, id := range players {
		out[id] = 0
	}

	for _, item := range predictions {
		current, ok := out[item.PlayerID]
		if !ok || !include(item.Gameweek) {
			continue
		}
		if !item.Label.Known() {
			continue
		}
		outcome, ok := outcomes[item.MatchID]
		if !ok || !outcome.Known() {
			continue
		}
		if outcome == item.Label {
			out[item.PlayerID] = current + PointsPerCorrectPick
		}
	}
	return out
}

// Rank orders points descending, then by player id. Tied players share a
// position and the next position skips accordingly (1, 1, 3).
func Rank(points map[string]int, gameweek int) []ScoreEntry {
	entries := make([]ScoreEntry, 0, len(points))
	for playerID, value := range points {
		entries = append(entries, ScoreEntry{
			Gameweek: gameweek,
			PlayerID: playerID,
			Points:   value,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})

	for i := range entries {
		if i > 0 && entries[i].Points == entries[i-1].Points {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries
}
