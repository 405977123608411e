package analysis

import "errors"

var (
	// ErrInsufficientData is returned when a computation needs at
	// least two samples and the sequence has fewer.
	ErrInsufficientData = errors.New("at least two telemetry samples required")

	// ErrInvalidParameter is returned for a negative smoothing window
	// or anomaly threshold.
	ErrInvalidParameter = errors.New("parameter must be non-negative")

	// ErrDimensionMismatch is returned when a smoothed series is
	// checked against a sequence of a different length.
	ErrDimensionMismatch = errors.New("smoothed series length does not match sequence")
)
