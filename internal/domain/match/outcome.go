package match

import (
	"errors"
	"fmt"
	"strings"
)

// Outcome is the resolved result of a match, and also the label a player
// predicts. UNKNOWN is never a valid prediction.
type Outcome string

const (
	OutcomeHome    Outcome = "HOME"
	OutcomeAway    Outcome = "AWAY"
	OutcomeTie     Outcome = "TIE"
	OutcomeUnknown Outcome = "UNKNOWN"
)

var (
	ErrMalformedScore = errors.New("malformed score data")
	ErrInvalidLabel   = errors.New("invalid prediction label")
)

// DataError reports a finished match whose score cannot be read.
type DataError struct {
	MatchID int64
	Reason  string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("match %d: %s: %s", e.MatchID, ErrMalformedScore, e.Reason)
}

func (e *DataError) Unwrap() error {
	return ErrMalformedScore
}

// Resolve derives the outcome of a match. Matches that are not finished are
// UNKNOWN whatever their score fields hold. A finished match with missing or
// negative goal counts is UNKNOWN together with a *DataError.
func Resolve(m Match) (Outcome, error) {
	if !m.IsFinished() {
		return OutcomeUnknown, nil
	}

	switch {
	case m.HomeGoals == nil && m.AwayGoals == nil:
		return OutcomeUnknown, &DataError{MatchID: m.ID, Reason: "home and away goals missing"}
	case m.HomeGoals == nil:
		return OutcomeUnknown, &DataError{MatchID: m.ID, Reason: "home goals missing"}
	case m.AwayGoals == nil:
		return OutcomeUnknown, &DataError{MatchID: m.ID, Reason: "away goals missing"}
	case *m.HomeGoals < 0 || *m.AwayGoals < 0:
		return OutcomeUnknown, &DataError{MatchID: m.ID, Reason: fmt.Sprintf("negative score %d-%d", *m.HomeGoals, *m.AwayGoals)}
	}

	home, away := *m.HomeGoals, *m.AwayGoals
	switch {
	case home > away:
		return OutcomeHome, nil
	case away > home:
		return OutcomeAway, nil
	default:
		return OutcomeTie, nil
	}
}

// ResolveAll resolves every match of a gameweek. Matches that fail to resolve
// stay in the result as UNKNOWN and their errors are returned alongside.
func ResolveAll(matches []Match) (map[int64]Outcome, []error) {
	out := make(map[int64]Outcome, len(matches))
	var errs []error
	for _, item := range matches {
		outcome, err := Resolve(item)
		if err != nil {
			errs = append(errs, err)
		}
		out[item.ID] = outcome
	}
	return out, errs
}

// ParseLabel parses a prediction label. Only HOME, AWAY and TIE are accepted.
func ParseLabel(raw string) (Outcome, error) {
	switch Outcome(strings.ToUpper(strings.TrimSpace(raw))) {
	case OutcomeHome:
		return OutcomeHome, nil
	case OutcomeAway:
		return OutcomeAway, nil
	case OutcomeTie:
		return OutcomeTie, nil
	default:
		return "", fmt.Errorf("%w: %q (expected HOME, AWAY or TIE)", ErrInvalidLabel, raw)
	}
}

func (o Outcome) Known() bool {
	return o == OutcomeHome || o == OutcomeAway || o == OutcomeTie
}

func (o Outcome) String() string {
	if o == "" {
		return string(OutcomeUnknown)
	}
	return string(o)
}
