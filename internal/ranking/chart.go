package ranking

import (
	"time"

	"github.com/fantazia-finance/terminal/internal/contracts"
)

// Point is one chart sample.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Base100 rebases every series to 100 at its own first observation, so
// heterogeneous price levels plot on one axis.
func Base100(m *contracts.PriceMatrix) map[string][]Point {
	out := make(map[string][]Point)
	if m == nil {
		return out
	}

	for _, ticker := range m.Tickers() {
		s, _ := m.Series(ticker)
		if s.Empty() {
			continue
		}
		base := s.First().Close
		if base == 0 {
			continue
		}
		points := make([]Point, 0, s.Len())
		for _, o := range s.Obs {
			points = append(points, Point{Date: o.Date, Value: o.Close / base * 100})
		}
		out[ticker] = points
	}
	return out
}

// Spread is the base-100 difference of a series against a benchmark,
// sampled on their common dates. Positive means outperformance since the
// common start.
func Spread(s, benchmark contracts.PriceSeries) []Point {
	if s.Empty() || benchmark.Empty() {
		return nil
	}

	sBase, bBase := s.First().Close, benchmark.First().Close
	if sBase == 0 || bBase == 0 {
		return nil
	}

	out := make([]Point, 0, s.Len())
	for _, o := range s.Obs {
		b := benchmark.ValueAt(o.Date)
		if b == nil {
			continue
		}
		out = append(out, Point{
			Date:  o.Date,
			Value: o.Close/sBase*100 - *b/bBase*100,
		})
	}
	return out
}
