package contracts

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewPriceSeriesCleansInput(t *testing.T) {
	obs := []Observation{
		{Date: day(2024, 1, 3), Close: 102},
		{Date: day(2024, 1, 1), Close: 100},
		{Date: day(2024, 1, 2), Close: 0},     // invalid close, dropped
		{Date: day(2024, 1, 1), Close: 999},   // duplicate date, dropped
		{Date: day(2024, 1, 4), Close: -5},    // negative close, dropped
	}

	s := NewPriceSeries("AAPL", obs)

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if !s.First().Date.Equal(day(2024, 1, 1)) || s.First().Close != 100 {
		t.Errorf("First() = %+v, want 2024-01-01 @ 100", s.First())
	}
	if !s.Last().Date.Equal(day(2024, 1, 3)) {
		t.Errorf("Last() = %+v, want 2024-01-03", s.Last())
	}
}

func TestPriceSeriesValueAt(t *testing.T) {
	s := NewPriceSeries("MSFT", []Observation{
		{Date: day(2024, 1, 1), Close: 100},
		{Date: day(2024, 1, 3), Close: 105},
	})

	if v := s.ValueAt(day(2024, 1, 3)); v == nil || *v != 105 {
		t.Errorf("ValueAt(existing) = %v, want 105", v)
	}
	if v := s.ValueAt(day(2024, 1, 2)); v != nil {
		t.Errorf("ValueAt(missing) = %v, want nil", *v)
	}
}

func TestPriceMatrixInvariants(t *testing.T) {
	m := NewPriceMatrix()

	m.Add(NewPriceSeries("AAPL", []Observation{{Date: day(2024, 1, 1), Close: 100}}))
	m.Add(NewPriceSeries("MSFT", []Observation{{Date: day(2024, 1, 2), Close: 200}}))
	m.Add(PriceSeries{Ticker: "FAIL"}) // empty series never becomes a column
	m.Add(NewPriceSeries("AAPL", []Observation{{Date: day(2024, 1, 5), Close: 1}}))

	tickers := m.Tickers()
	if len(tickers) != 2 || tickers[0] != "AAPL" || tickers[1] != "MSFT" {
		t.Fatalf("Tickers() = %v, want [AAPL MSFT]", tickers)
	}
	if _, ok := m.Series("FAIL"); ok {
		t.Error("empty series must not be present in the matrix")
	}

	idx := m.Index()
	if len(idx) != 2 || !idx[0].Equal(day(2024, 1, 1)) || !idx[1].Equal(day(2024, 1, 2)) {
		t.Errorf("Index() = %v, want sorted union of dates", idx)
	}
}

func TestParseWindow(t *testing.T) {
	for _, w := range Windows() {
		got, err := ParseWindow(string(w))
		if err != nil || got != w {
			t.Errorf("ParseWindow(%q) = %v, %v", w, got, err)
		}
	}

	if _, err := ParseWindow("2w"); err == nil {
		t.Error("ParseWindow(2w) should fail")
	}
}

func TestWeightsNormalize(t *testing.T) {
	w := Weights{Value: 56, Quality: 60, Momentum: 54, Risk: 30}
	n := w.Normalize()

	sum := n.Value + n.Quality + n.Momentum + n.Risk
	if diff := sum - 1.0; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("normalized weights sum = %v, want 1", sum)
	}
	if diff := n.Value - 0.28; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("normalized Value = %v, want 0.28", n.Value)
	}
}

func TestWeightsZeroSumFallsBackToDefault(t *testing.T) {
	n := Weights{}.Normalize()
	if n != DefaultWeights() {
		t.Errorf("Normalize() on zero weights = %+v, want default split", n)
	}
}

func TestWeightsDescribe(t *testing.T) {
	want := "28% Value + 30% Quality + 27% Momentum + 15% Risk"
	if got := DefaultWeights().Describe(); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}

	// Describe normalizes first, so scale does not matter.
	if got := (Weights{Value: 1, Quality: 1, Momentum: 1, Risk: 1}).Describe(); got != "25% Value + 25% Quality + 25% Momentum + 25% Risk" {
		t.Errorf("Describe() on equal weights = %q", got)
	}
}

func TestWeightsValidate(t *testing.T) {
	if err := (Weights{Value: -0.1}).Validate(); err == nil {
		t.Error("Validate() should reject negative weights")
	}
	if err := DefaultWeights().Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}
