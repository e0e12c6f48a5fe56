package match

import (
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusLive      Status = "LIVE"
	StatusFinished  Status = "FINISHED"
	StatusPostponed Status = "POSTPONED"
	StatusCancelled Status = "CANCELLED"
	StatusOther     Status = "OTHER"
)

// Match is one Premier League fixture as reported by the match data provider.
// HomeGoals and AwayGoals are nil until the provider reports a full-time score.
type Match struct {
	ID        int64
	Gameweek  int
	HomeTeam  string
	AwayTeam  string
	Status    Status
	HomeGoals *int
	AwayGoals *int
	KickoffAt time.Time
}

// NormalizeStatus maps provider status strings onto Status.
func NormalizeStatus(value string) Status {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", "SCHEDULED", "TIMED":
		return StatusScheduled
	case "LIVE", "IN_PLAY", "PAUSED":
		return StatusLive
	case "FINISHED", "AWARDED", "FT":
		return StatusFinished
	case "POSTPONED", "SUSPENDED":
		return StatusPostponed
	case "CANCELLED", "CANCELED":
		return StatusCancelled
	default:
		return StatusOther
	}
}

func (m Match) IsFinished() bool {
	return m.Status == StatusFinished
}

// AllFinished reports whether every match in the slice is finished.
// An empty slice is never considered finished.
func AllFinished(matches []Match) bool {
	if len(matches) == 0 {
		return false
	}
	for _, item := range matches {
		if !item.IsFinished() {
			return false
		}
	}
	return true
}
