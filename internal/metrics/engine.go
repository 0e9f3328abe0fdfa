package metrics

import (
	"math"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/internal/window"
)

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// minVolatilityObs is the observation floor below which volatility is
// statistically meaningless and reported as null.
const minVolatilityObs = 20

// Engine computes per-ticker performance metrics from price history.
// Every metric is independently nullable; a short series produces a row
// of nulls, never a dropped ticker.
type Engine struct{}

// NewEngine creates a metrics engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute produces one metrics row per matrix column, in column order.
func (e *Engine) Compute(m *contracts.PriceMatrix) []contracts.MetricsRow {
	if m == nil {
		return nil
	}

	rows := make([]contracts.MetricsRow, 0, m.Len())
	for _, ticker := range m.Tickers() {
		s, _ := m.Series(ticker)
		rows = append(rows, e.computeOne(s))
	}
	return rows
}

func (e *Engine) computeOne(s contracts.PriceSeries) contracts.MetricsRow {
	return contracts.MetricsRow{
		Ticker:      s.Ticker,
		Return1M:    RollingReturn(s, 21),
		Return3M:    RollingReturn(s, 63),
		Return6M:    RollingReturn(s, 126),
		Return1Y:    CalendarReturn(s, 1),
		Volatility:  AnnualizedVolatility(s),
		MaxDrawdown: MaxDrawdown(s),
	}
}

// RollingReturn is the simple return over the last n observations:
// last / obs[len-1-n] - 1. Null unless the series has more than n
// observations, so the base index always exists.
func RollingReturn(s contracts.PriceSeries, n int) *float64 {
	if n <= 0 || s.Len() <= n {
		return nil
	}
	base := s.Obs[s.Len()-1-n].Close
	if base == 0 {
		return nil
	}
	v := s.Last().Close/base - 1
	return &v
}

// CalendarReturn is the return over whole calendar years anchored at the
// last observation: the base is the first observation on or after the
// shifted date. A history that starts inside the window bases on its own
// first observation, so a single-observation series yields exactly 0.0.
// Null only when no observation exists on or after the cutoff.
func CalendarReturn(s contracts.PriceSeries, years int) *float64 {
	if s.Empty() {
		return nil
	}

	last := s.Last()
	cutoff := window.ShiftYears(last.Date, -years)

	for _, o := range s.Obs {
		if !o.Date.Before(cutoff) {
			if o.Close == 0 {
				return nil
			}
			v := last.Close/o.Close - 1
			return &v
		}
	}
	return nil
}

// AnnualizedVolatility is the sample standard deviation of daily simple
// returns scaled by sqrt(252). Null below the observation floor.
func AnnualizedVolatility(s contracts.PriceSeries) *float64 {
	if s.Len() < minVolatilityObs {
		return nil
	}

	returns := dailyReturns(s)
	if len(returns) < 2 {
		return nil
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	ss := 0.0
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	// Sample variance, matching the usual finance convention.
	variance := ss / float64(len(returns)-1)

	v := math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
	return &v
}

// MaxDrawdown is the most negative peak-to-trough decline, expressed as
// a non-positive fraction. A single observation never declines, so it is
// exactly 0.0; only an empty series is null.
func MaxDrawdown(s contracts.PriceSeries) *float64 {
	if s.Empty() {
		return nil
	}

	peak := s.Obs[0].Close
	worst := 0.0
	for _, o := range s.Obs {
		if o.Close > peak {
			peak = o.Close
		}
		if dd := o.Close/peak - 1; dd < worst {
			worst = dd
		}
	}
	return &worst
}

func dailyReturns(s contracts.PriceSeries) []float64 {
	out := make([]float64, 0, s.Len()-1)
	for i := 1; i < s.Len(); i++ {
		prev := s.Obs[i-1].Close
		if prev == 0 {
			continue
		}
		out = append(out, s.Obs[i].Close/prev-1)
	}
	return out
}
