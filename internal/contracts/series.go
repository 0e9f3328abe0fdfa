package contracts

import (
	"sort"
	"time"
)

// Observation is one daily close. Timestamps are timezone-naive dates at
// daily granularity; adapters normalize before building a series.
type Observation struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is a ticker's time-indexed close history: strictly increasing
// timestamps, no duplicates, closes always positive (zero or negative values
// are dropped at the adapter as invalid for ratio math). Immutable once
// returned by an adapter.
type PriceSeries struct {
	Ticker string        `json:"ticker"`
	Obs    []Observation `json:"obs"`
}

// NewPriceSeries builds a series from raw observations: sorts by date,
// drops non-positive closes and duplicate dates (first occurrence wins).
func NewPriceSeries(ticker string, obs []Observation) PriceSeries {
	clean := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if o.Close > 0 {
			clean = append(clean, o)
		}
	}

	sort.SliceStable(clean, func(i, j int) bool {
		return clean[i].Date.Before(clean[j].Date)
	})

	dedup := clean[:0]
	for _, o := range clean {
		if len(dedup) > 0 && o.Date.Equal(dedup[len(dedup)-1].Date) {
			continue
		}
		dedup = append(dedup, o)
	}

	return PriceSeries{Ticker: ticker, Obs: dedup}
}

// Empty reports whether the series has no observations.
func (s PriceSeries) Empty() bool {
	return len(s.Obs) == 0
}

// Len returns the number of observations.
func (s PriceSeries) Len() int {
	return len(s.Obs)
}

// Last returns the most recent observation. Callers must check Empty first.
func (s PriceSeries) Last() Observation {
	return s.Obs[len(s.Obs)-1]
}

// First returns the earliest observation. Callers must check Empty first.
func (s PriceSeries) First() Observation {
	return s.Obs[0]
}

// ValueAt returns the close on an exact date, or nil when the series has
// no observation that day.
func (s PriceSeries) ValueAt(date time.Time) *float64 {
	i := sort.Search(len(s.Obs), func(i int) bool {
		return !s.Obs[i].Date.Before(date)
	})
	if i < len(s.Obs) && s.Obs[i].Date.Equal(date) {
		v := s.Obs[i].Close
		return &v
	}
	return nil
}

// SourceNone marks a ticker that no provider in the chain could serve.
const SourceNone = "none"

// SourceMap records which provider supplied each requested ticker's series.
// Its domain covers every requested ticker; only tickers present in the
// matrix carry a value other than SourceNone.
type SourceMap map[string]string

// PriceMatrix maps ticker symbols to their price series, preserving the
// requested basket order. A ticker that failed every provider is absent,
// never present as an empty column.
type PriceMatrix struct {
	tickers []string
	series  map[string]PriceSeries
}

// NewPriceMatrix creates an empty matrix.
func NewPriceMatrix() *PriceMatrix {
	return &PriceMatrix{series: make(map[string]PriceSeries)}
}

// Add inserts a non-empty series. Empty series and duplicate tickers
// are ignored, preserving the non-empty-columns invariant.
func (m *PriceMatrix) Add(s PriceSeries) {
	if s.Empty() || s.Ticker == "" {
		return
	}
	if _, exists := m.series[s.Ticker]; exists {
		return
	}
	m.tickers = append(m.tickers, s.Ticker)
	m.series[s.Ticker] = s
}

// Tickers returns the column set in insertion (basket) order.
func (m *PriceMatrix) Tickers() []string {
	out := make([]string, len(m.tickers))
	copy(out, m.tickers)
	return out
}

// Series returns one ticker's column.
func (m *PriceMatrix) Series(ticker string) (PriceSeries, bool) {
	s, ok := m.series[ticker]
	return s, ok
}

// Empty reports whether no ticker resolved.
func (m *PriceMatrix) Empty() bool {
	return len(m.tickers) == 0
}

// Len returns the number of resolved tickers.
func (m *PriceMatrix) Len() int {
	return len(m.tickers)
}

// Index returns the outer-joined timestamp index: the sorted union of all
// series' dates. Rows where every ticker is missing cannot appear by
// construction; partial rows are retained inside each series.
func (m *PriceMatrix) Index() []time.Time {
	seen := make(map[time.Time]struct{})
	for _, t := range m.tickers {
		for _, o := range m.series[t].Obs {
			seen[o.Date] = struct{}{}
		}
	}

	out := make([]time.Time, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
