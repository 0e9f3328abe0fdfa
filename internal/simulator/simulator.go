package simulator

import (
	"fmt"

	"github.com/fantazia-finance/terminal/internal/contracts"
)

// Position is one ticker's simulated buy-and-hold leg.
type Position struct {
	Ticker     string  `json:"ticker"`
	Weight     float64 `json:"weight"`
	Allocated  float64 `json:"allocated"`
	Shares     float64 `json:"shares"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	FinalValue float64 `json:"final_value"`
	PnL        float64 `json:"pnl"`
}

// Result is a full notional simulation over the window: buy at the first
// shared date, hold, value at the last.
type Result struct {
	Capital     float64    `json:"capital"`
	FinalValue  float64    `json:"final_value"`
	PnL         float64    `json:"pnl"`
	ReturnTotal float64    `json:"return_total"`
	Positions   []Position `json:"positions"`
}

// Run simulates a buy-and-hold allocation of capital across the matrix
// tickers. Weights are normalized by their sum; a zero or missing weight
// set falls back to an equal split. A ticker without a price at the
// entry or exit date allocates nothing and carries zero through.
func Run(m *contracts.PriceMatrix, capital float64, weights map[string]float64) (*Result, error) {
	if capital <= 0 {
		return nil, fmt.Errorf("capital must be positive, got %v", capital)
	}
	if m == nil || m.Empty() {
		return nil, fmt.Errorf("no price history to simulate on")
	}

	index := m.Index()
	if len(index) < 2 {
		return nil, fmt.Errorf("need at least two dates to simulate, got %d", len(index))
	}
	entry, exit := index[0], index[len(index)-1]

	tickers := m.Tickers()
	norm := normalizeWeights(tickers, weights)

	res := &Result{Capital: capital}
	for _, ticker := range tickers {
		s, _ := m.Series(ticker)
		pos := Position{Ticker: ticker, Weight: norm[ticker]}

		entryPrice := s.ValueAt(entry)
		exitPrice := s.ValueAt(exit)
		if entryPrice != nil && exitPrice != nil && *entryPrice > 0 {
			pos.Allocated = capital * pos.Weight
			pos.EntryPrice = *entryPrice
			pos.ExitPrice = *exitPrice
			pos.Shares = pos.Allocated / pos.EntryPrice
			pos.FinalValue = pos.Shares * pos.ExitPrice
			pos.PnL = pos.FinalValue - pos.Allocated
		}

		res.FinalValue += pos.FinalValue
		res.Positions = append(res.Positions, pos)
	}

	invested := 0.0
	for _, p := range res.Positions {
		invested += p.Allocated
	}
	res.PnL = res.FinalValue - invested
	if invested > 0 {
		res.ReturnTotal = res.FinalValue/invested - 1
	}

	return res, nil
}

// normalizeWeights scales the given weights to sum to 1 over the matrix
// tickers. Tickers absent from the map weigh zero; an all-zero or empty
// map means an equal split.
func normalizeWeights(tickers []string, weights map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(tickers))

	sum := 0.0
	for _, t := range tickers {
		if w := weights[t]; w > 0 {
			sum += w
		}
	}

	if sum <= 0 {
		equal := 1.0 / float64(len(tickers))
		for _, t := range tickers {
			out[t] = equal
		}
		return out
	}

	for _, t := range tickers {
		if w := weights[t]; w > 0 {
			out[t] = w / sum
		}
	}
	return out
}
