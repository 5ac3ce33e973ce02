package adwin

import "errors"

var (
	// ErrInvalidDelta means Config.Delta was outside the open interval (0,1).
	ErrInvalidDelta = errors.New("adwin: delta must be in (0,1)")

	// ErrNonFinite means Fit was called with NaN or +/-Inf.
	ErrNonFinite = errors.New("adwin: sample must be finite")
)
