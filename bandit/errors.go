package bandit

import "errors"

var (
	// ErrInvalidInput is returned when a policy is asked to choose from nothing
	// or is configured with out-of-range parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariantViolation marks counters that no sequence of valid trials can produce.
	ErrInvariantViolation = errors.New("invariant violation")
)
