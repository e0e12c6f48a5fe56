package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrProviderUnavailable marks match data provider failures. Scoring
	// treats it as "no outcomes known" rather than failing.
	ErrProviderUnavailable = fmt.Errorf("match provider: %w", ErrDependencyUnavailable)
)
