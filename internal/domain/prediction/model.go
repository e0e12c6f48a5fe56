package prediction

import (
	"time"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
)

// Prediction is one player's predicted label for one match. A player holds at
// most one prediction per match; a later submission replaces the earlier one.
type Prediction struct {
	PlayerID    string
	Gameweek    int
	MatchID     int64
	Label       match.Outcome
	SubmittedAt time.Time
}

// Key identifies a prediction within a store.
type Key struct {
	PlayerID string
	MatchID  int64
}

func (p Prediction) Key() Key {
	return Key{PlayerID: p.PlayerID, MatchID: p.MatchID}
}
