package ranking

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantazia-finance/terminal/internal/contracts"
)

func f(v float64) *float64 { return &v }

func row(ticker string, pct float64, ret1y *float64) contracts.ScoredRow {
	return contracts.ScoredRow{
		Ticker:  ticker,
		Source:  "yahoo",
		Metrics: contracts.MetricsRow{Ticker: ticker, Return1Y: ret1y},
		Scores:  contracts.FactorScores{Ticker: ticker, Percentage: pct},
	}
}

func TestSortDescendingNullsLast(t *testing.T) {
	rows := []contracts.ScoredRow{
		row("A", 10, f(0.05)),
		row("B", 20, nil),
		row("C", 30, f(0.25)),
	}

	Sort(rows, ColumnReturn1Y, false)
	assert.Equal(t, []string{"C", "A", "B"}, tickersOf(rows))

	Sort(rows, ColumnReturn1Y, true)
	assert.Equal(t, []string{"A", "C", "B"}, tickersOf(rows))
}

func TestSortIsStableOnTies(t *testing.T) {
	rows := []contracts.ScoredRow{
		row("FIRST", 50, f(0.10)),
		row("SECOND", 50, f(0.10)),
		row("THIRD", 50, f(0.10)),
	}

	Sort(rows, ColumnPercentage, false)
	assert.Equal(t, []string{"FIRST", "SECOND", "THIRD"}, tickersOf(rows))
}

func TestFilterBeforeRanking(t *testing.T) {
	rows := []contracts.ScoredRow{
		row("A", 80, f(0.30)),
		row("B", 60, f(-0.10)),
		row("C", 40, f(0.05)),
		row("D", 90, nil),
	}

	kept := Filter(rows, MinPercentage(50), PositiveReturn1Y())
	assert.Equal(t, []string{"A"}, tickersOf(kept))

	// Filtering never touches the scores themselves.
	assert.Equal(t, 80.0, kept[0].Scores.Percentage)
}

func TestParseColumn(t *testing.T) {
	c, err := ParseColumn(" Percentage ")
	require.NoError(t, err)
	assert.Equal(t, ColumnPercentage, c)

	_, err = ParseColumn("sharpe")
	require.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	rows := []contracts.ScoredRow{
		{
			Ticker:       "AAPL",
			Source:       "yahoo",
			Fundamentals: contracts.FundamentalsRecord{Ticker: "AAPL", Name: "Apple Inc.", Sector: "Technology"},
			Metrics:      contracts.MetricsRow{Ticker: "AAPL", Return1Y: f(0.3456)},
			Scores:       contracts.FactorScores{Ticker: "AAPL", Global: 0.123, Percentage: 100},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Fantazia Score")
	assert.Contains(t, lines[1], "AAPL,yahoo,Apple Inc.,Technology")
	assert.Contains(t, lines[1], "0.35")   // rounded return
	assert.Contains(t, lines[1], "100.00") // percentage
	// Null metrics render as empty cells.
	assert.Contains(t, lines[1], ",,")
}

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestBase100(t *testing.T) {
	m := contracts.NewPriceMatrix()
	m.Add(contracts.NewPriceSeries("A", []contracts.Observation{
		{Date: day(1), Close: 50},
		{Date: day(2), Close: 55},
	}))

	got := Base100(m)
	require.Len(t, got["A"], 2)
	assert.Equal(t, 100.0, got["A"][0].Value)
	assert.InDelta(t, 110.0, got["A"][1].Value, 1e-9)
}

func TestSpreadAlignsOnCommonDates(t *testing.T) {
	s := contracts.NewPriceSeries("A", []contracts.Observation{
		{Date: day(1), Close: 100},
		{Date: day(2), Close: 110},
		{Date: day(3), Close: 120},
	})
	bench := contracts.NewPriceSeries("SPY", []contracts.Observation{
		{Date: day(1), Close: 400},
		{Date: day(3), Close: 420},
	})

	got := Spread(s, bench)
	require.Len(t, got, 2) // day(2) missing from the benchmark

	assert.Equal(t, 0.0, got[0].Value)
	// A is +20%, SPY +5%: spread 15 points.
	assert.InDelta(t, 15.0, got[1].Value, 1e-9)
}

func tickersOf(rows []contracts.ScoredRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Ticker
	}
	return out
}
