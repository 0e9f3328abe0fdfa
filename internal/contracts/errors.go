package contracts

import "errors"

// Contract-violation errors. Data-quality conditions (provider failures,
// missing fundamentals, degenerate baskets) are never errors; these cover
// caller bugs only and fail fast.
var (
	ErrUnknownWindow  = errors.New("unknown window")
	ErrNegativeWeight = errors.New("factor weights must be non-negative")
	ErrEmptyTicker    = errors.New("empty ticker symbol")
)
