package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrNoScores marks a week with zero approved submissions. The week is
	// left unprocessed and picked up again on the next tick.
	ErrNoScores = errors.New("no approved scores")

	// ErrMissingConfiguration marks a league that cannot be processed as
	// configured (no tee time, no matchups, no course data). Nothing is
	// written for it.
	ErrMissingConfiguration = errors.New("missing configuration")
)
