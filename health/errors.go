package health

import "errors"

var (
	// ErrCheckTimeout indicates a health check did not finish before the
	// aggregator timeout.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckPanicked indicates a health check panicked.
	ErrCheckPanicked = errors.New("health: check panicked")
)
