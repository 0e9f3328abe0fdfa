package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantazia-finance/terminal/internal/contracts"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func series(ticker string, closes map[int]float64) contracts.PriceSeries {
	obs := make([]contracts.Observation, 0, len(closes))
	for d, c := range closes {
		obs = append(obs, contracts.Observation{Date: day(d), Close: c})
	}
	return contracts.NewPriceSeries(ticker, obs)
}

func TestRunEqualSplit(t *testing.T) {
	m := contracts.NewPriceMatrix()
	m.Add(series("A", map[int]float64{1: 100, 10: 110}))
	m.Add(series("B", map[int]float64{1: 50, 10: 40}))

	res, err := Run(m, 10000, nil)
	require.NoError(t, err)

	// 5000 in each: A grows to 5500, B shrinks to 4000.
	assert.InDelta(t, 9500, res.FinalValue, 1e-9)
	assert.InDelta(t, -500, res.PnL, 1e-9)
	assert.InDelta(t, -0.05, res.ReturnTotal, 1e-9)

	require.Len(t, res.Positions, 2)
	assert.InDelta(t, 50, res.Positions[0].Shares, 1e-9)
	assert.InDelta(t, 0.5, res.Positions[0].Weight, 1e-9)
}

func TestRunCustomWeightsNormalized(t *testing.T) {
	m := contracts.NewPriceMatrix()
	m.Add(series("A", map[int]float64{1: 100, 10: 120}))
	m.Add(series("B", map[int]float64{1: 100, 10: 100}))

	res, err := Run(m, 1000, map[string]float64{"A": 3, "B": 1})
	require.NoError(t, err)

	// 750/250 split after normalization.
	assert.InDelta(t, 750, res.Positions[0].Allocated, 1e-9)
	assert.InDelta(t, 250, res.Positions[1].Allocated, 1e-9)
	assert.InDelta(t, 900+250, res.FinalValue, 1e-9)
}

func TestRunMissingEntryPriceAllocatesNothing(t *testing.T) {
	m := contracts.NewPriceMatrix()
	m.Add(series("A", map[int]float64{1: 100, 10: 110}))
	// B has no price at the entry date.
	m.Add(series("B", map[int]float64{5: 50, 10: 55}))

	res, err := Run(m, 1000, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Positions[1].Allocated)
	assert.Equal(t, 0.0, res.Positions[1].FinalValue)

	// Return is measured on invested capital only.
	assert.InDelta(t, 0.10, res.ReturnTotal, 1e-9)
}

func TestRunRejectsBadInput(t *testing.T) {
	m := contracts.NewPriceMatrix()
	m.Add(series("A", map[int]float64{1: 100, 10: 110}))

	_, err := Run(m, 0, nil)
	require.Error(t, err)

	_, err = Run(contracts.NewPriceMatrix(), 1000, nil)
	require.Error(t, err)
}
