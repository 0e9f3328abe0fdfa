package market

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// fakeProvider serves canned series for a fixed set of tickers.
type fakeProvider struct {
	name   string
	series map[string]contracts.PriceSeries

	mu    sync.Mutex
	calls []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(_ context.Context, ticker string, _ contracts.Window) contracts.PriceSeries {
	f.mu.Lock()
	f.calls = append(f.calls, ticker)
	f.mu.Unlock()

	if s, ok := f.series[ticker]; ok {
		return s
	}
	return contracts.PriceSeries{Ticker: ticker}
}

func twoPoints(ticker string) contracts.PriceSeries {
	base := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	return contracts.NewPriceSeries(ticker, []contracts.Observation{
		{Date: base, Close: 100},
		{Date: base.AddDate(0, 0, 1), Close: 101},
	})
}

func newTestResolver(y, td, fh *fakeProvider) *Resolver {
	return NewResolver(y, td, fh, logger.NewNop())
}

func TestResolveWalksChainPerTicker(t *testing.T) {
	y := &fakeProvider{name: "yahoo", series: map[string]contracts.PriceSeries{
		"AAPL": twoPoints("AAPL"),
	}}
	td := &fakeProvider{name: "twelvedata", series: map[string]contracts.PriceSeries{
		"MSFT": twoPoints("MSFT"),
	}}
	fh := &fakeProvider{name: "finnhub", series: map[string]contracts.PriceSeries{}}

	r := newTestResolver(y, td, fh)

	matrix, sources, err := r.Resolve(context.Background(), []string{"AAPL", "MSFT", "GHOST"}, contracts.Window1Y, ModeAuto)
	require.NoError(t, err)

	// AAPL from the first provider, MSFT from the second, GHOST nowhere.
	assert.Equal(t, "yahoo", sources["AAPL"])
	assert.Equal(t, "twelvedata", sources["MSFT"])
	assert.Equal(t, contracts.SourceNone, sources["GHOST"])

	assert.Equal(t, 2, matrix.Len())
	_, ok := matrix.Series("GHOST")
	assert.False(t, ok)

	// Finnhub only sees the ticker the first two providers missed.
	assert.ElementsMatch(t, []string{"GHOST"}, fh.calls)
}

func TestResolveSingleProviderMode(t *testing.T) {
	y := &fakeProvider{name: "yahoo", series: map[string]contracts.PriceSeries{}}
	td := &fakeProvider{name: "twelvedata", series: map[string]contracts.PriceSeries{
		"AAPL": twoPoints("AAPL"),
	}}
	fh := &fakeProvider{name: "finnhub", series: map[string]contracts.PriceSeries{
		"AAPL": twoPoints("AAPL"),
	}}

	r := newTestResolver(y, td, fh)

	_, sources, err := r.Resolve(context.Background(), []string{"AAPL"}, contracts.Window1Y, ModeYahoo)
	require.NoError(t, err)

	// Yahoo-only mode never falls through, even when others have data.
	assert.Equal(t, contracts.SourceNone, sources["AAPL"])
	assert.Empty(t, td.calls)
	assert.Empty(t, fh.calls)
}

func TestNormalizeTickers(t *testing.T) {
	got, err := NormalizeTickers([]string{" aapl", "MSFT ", "AAPL", "msft"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, got)
}

func TestNormalizeTickersRejectsBlank(t *testing.T) {
	_, err := NormalizeTickers([]string{"AAPL", "  "})
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrEmptyTicker)
}

func TestResolvePreservesBasketOrder(t *testing.T) {
	series := map[string]contracts.PriceSeries{}
	tickers := []string{"ZZZ", "MMM", "AAA"}
	for _, tk := range tickers {
		series[tk] = twoPoints(tk)
	}
	y := &fakeProvider{name: "yahoo", series: series}
	r := newTestResolver(y, &fakeProvider{name: "twelvedata"}, &fakeProvider{name: "finnhub"})

	matrix, _, err := r.Resolve(context.Background(), tickers, contracts.Window1Mo, ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, tickers, matrix.Tickers())
}

func TestPresetByName(t *testing.T) {
	p, err := PresetByName("mega-tech-us")
	require.NoError(t, err)
	assert.Contains(t, p.Tickers, "NVDA")

	_, err = PresetByName("no-such-basket")
	require.Error(t, err)
}
