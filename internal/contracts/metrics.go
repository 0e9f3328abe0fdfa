package contracts

// MetricsRow holds one ticker's derived price metrics. Recomputed from the
// price matrix on every scoring pass, never persisted. A nil field means
// the series was too short (or empty) for that metric.
type MetricsRow struct {
	Ticker string `json:"ticker"`

	// Rolling-session returns: 21/63/126 trailing sessions approximate
	// 1, 3 and 6 calendar months.
	Return1M *float64 `json:"return_1m,omitempty"`
	Return3M *float64 `json:"return_3m,omitempty"`
	Return6M *float64 `json:"return_6m,omitempty"`

	// Return1Y is computed on a calendar-year offset, not a session count.
	Return1Y *float64 `json:"return_1y,omitempty"`

	// Volatility is the annualized standard deviation of daily returns.
	Volatility *float64 `json:"volatility,omitempty"`

	// MaxDrawdown is the worst peak-to-trough decline, a non-positive
	// fraction (e.g. -0.30 for a 30% drawdown).
	MaxDrawdown *float64 `json:"max_drawdown,omitempty"`
}
