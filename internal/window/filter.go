package window

import (
	"time"

	"github.com/fantazia-finance/terminal/internal/contracts"
)

// Filtering truncates price history to a relative window anchored on the
// series' own last timestamp, so the pipeline behaves identically on
// delayed or partial data. Day windows (1d/5d) subtract a fixed day
// count; month and year windows subtract calendar units with end-of-month
// clamping (Mar 31 minus one month is the last day of February, not a
// normalized date in early March).

// Series keeps only the observations with timestamp >= cutoff, where
// cutoff = last timestamp - window offset. An empty series stays empty.
func Series(s contracts.PriceSeries, w contracts.Window) contracts.PriceSeries {
	if s.Empty() {
		return s
	}

	cutoff := Cutoff(s.Last().Date, w)

	kept := make([]contracts.Observation, 0, s.Len())
	for _, o := range s.Obs {
		if !o.Date.Before(cutoff) {
			kept = append(kept, o)
		}
	}

	return contracts.PriceSeries{Ticker: s.Ticker, Obs: kept}
}

// Matrix applies the window per series, so one ticker's shorter history
// never truncates another's.
func Matrix(m *contracts.PriceMatrix, w contracts.Window) *contracts.PriceMatrix {
	out := contracts.NewPriceMatrix()
	if m == nil {
		return out
	}
	for _, t := range m.Tickers() {
		s, _ := m.Series(t)
		out.Add(Series(s, w))
	}
	return out
}

// Cutoff computes the inclusive lower bound for a window anchored at last.
func Cutoff(last time.Time, w contracts.Window) time.Time {
	switch w {
	case contracts.Window1D:
		return last.AddDate(0, 0, -1)
	case contracts.Window5D:
		return last.AddDate(0, 0, -5)
	case contracts.Window1Mo:
		return ShiftMonths(last, -1)
	case contracts.Window3Mo:
		return ShiftMonths(last, -3)
	case contracts.Window1Y:
		return ShiftYears(last, -1)
	case contracts.Window3Y:
		return ShiftYears(last, -3)
	case contracts.Window5Y:
		return ShiftYears(last, -5)
	}
	return last
}

// ShiftMonths moves t by a number of calendar months, clamping the day to
// the target month's length. Go's AddDate would normalize Feb 31 into
// early March instead, shifting cutoffs by up to three days.
func ShiftMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()

	total := int(m) - 1 + months
	year := y + total/12
	month := time.Month(total%12 + 1)
	if total < 0 && total%12 != 0 {
		year--
		month = time.Month(total%12 + 13)
	}

	if max := daysIn(year, month); d > max {
		d = max
	}

	return time.Date(year, month, d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// ShiftYears moves t by whole calendar years, clamping Feb 29 to Feb 28
// in non-leap targets.
func ShiftYears(t time.Time, years int) time.Time {
	return ShiftMonths(t, years*12)
}

func daysIn(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
