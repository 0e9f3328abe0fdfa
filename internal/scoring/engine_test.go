package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

func f(v float64) *float64 { return &v }

func TestZScoresNormalColumn(t *testing.T) {
	col := []*float64{f(1), f(2), f(3), f(4)}

	got := ZScores(col)
	require.Len(t, got, 4)

	// Standardized column: mean 0, population std 1.
	mean, ss := 0.0, 0.0
	for _, v := range got {
		require.NotNil(t, v)
		mean += *v
	}
	mean /= 4
	for _, v := range got {
		ss += (*v - mean) * (*v - mean)
	}
	std := math.Sqrt(ss / 4)

	assert.InDelta(t, 0.0, mean, 1e-12)
	assert.InDelta(t, 1.0, std, 1e-12)
}

func TestZScoresAllNullStaysNull(t *testing.T) {
	got := ZScores([]*float64{nil, nil, nil})
	for _, v := range got {
		assert.Nil(t, v)
	}
}

func TestZScoresZeroVarianceIsAllZero(t *testing.T) {
	got := ZScores([]*float64{f(7), f(7), f(7)})
	for _, v := range got {
		require.NotNil(t, v)
		assert.Equal(t, 0.0, *v)
	}
}

func TestZScoresSkipsNullsInStatistics(t *testing.T) {
	got := ZScores([]*float64{f(10), nil, f(20)})

	require.NotNil(t, got[0])
	assert.Nil(t, got[1])
	require.NotNil(t, got[2])
	// Mean 15, population std 5.
	assert.InDelta(t, -1.0, *got[0], 1e-12)
	assert.InDelta(t, 1.0, *got[2], 1e-12)
}

// syntheticBasket builds three tickers with A strictly dominating B
// dominating C on every scored column.
func syntheticBasket() ([]contracts.MetricsRow, map[string]contracts.FundamentalsRecord) {
	rows := []contracts.MetricsRow{
		{Ticker: "A", Return6M: f(0.30), Return1Y: f(0.50), Volatility: f(0.15), MaxDrawdown: f(-0.08)},
		{Ticker: "B", Return6M: f(0.10), Return1Y: f(0.20), Volatility: f(0.25), MaxDrawdown: f(-0.20)},
		{Ticker: "C", Return6M: f(-0.05), Return1Y: f(-0.10), Volatility: f(0.40), MaxDrawdown: f(-0.45)},
	}
	funds := map[string]contracts.FundamentalsRecord{
		"A": {Ticker: "A", PERatio: f(12), PBRatio: f(1.5), ROE: f(0.30), NetMargin: f(0.25), DebtRatio: f(30)},
		"B": {Ticker: "B", PERatio: f(20), PBRatio: f(3.0), ROE: f(0.15), NetMargin: f(0.12), DebtRatio: f(80)},
		"C": {Ticker: "C", PERatio: f(35), PBRatio: f(6.0), ROE: f(0.05), NetMargin: f(0.03), DebtRatio: f(150)},
	}
	return rows, funds
}

func TestScoreOrdersDominatedBasket(t *testing.T) {
	rows, funds := syntheticBasket()

	scores, err := NewEngine(logger.NewNop()).Score(rows, funds, contracts.DefaultWeights())
	require.NoError(t, err)
	require.Len(t, scores, 3)

	a, b, c := scores[0], scores[1], scores[2]
	assert.Greater(t, a.Global, b.Global)
	assert.Greater(t, b.Global, c.Global)

	// Min-max rescale pins the extremes.
	assert.Equal(t, 100.0, a.Percentage)
	assert.Equal(t, 0.0, c.Percentage)
	assert.Greater(t, b.Percentage, 0.0)
	assert.Less(t, b.Percentage, 100.0)
}

func TestScoreWeightScalingIsIdentity(t *testing.T) {
	rows, funds := syntheticBasket()
	e := NewEngine(logger.NewNop())

	base, err := e.Score(rows, funds, contracts.Weights{Value: 28, Quality: 30, Momentum: 27, Risk: 15})
	require.NoError(t, err)
	doubled, err := e.Score(rows, funds, contracts.Weights{Value: 56, Quality: 60, Momentum: 54, Risk: 30})
	require.NoError(t, err)

	for i := range base {
		assert.InDelta(t, base[i].Global, doubled[i].Global, 1e-12)
		assert.InDelta(t, base[i].Percentage, doubled[i].Percentage, 1e-12)
	}
}

func TestScoreZeroWeightsFallBackToDefaultSplit(t *testing.T) {
	rows, funds := syntheticBasket()
	e := NewEngine(logger.NewNop())

	viaZero, err := e.Score(rows, funds, contracts.Weights{})
	require.NoError(t, err)
	viaDefault, err := e.Score(rows, funds, contracts.DefaultWeights())
	require.NoError(t, err)

	for i := range viaZero {
		assert.InDelta(t, viaDefault[i].Global, viaZero[i].Global, 1e-12)
	}
}

func TestScoreRejectsNegativeWeights(t *testing.T) {
	rows, funds := syntheticBasket()

	_, err := NewEngine(logger.NewNop()).Score(rows, funds, contracts.Weights{Value: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrNegativeWeight)
}

func TestScoreSingleTickerIsFifty(t *testing.T) {
	rows, funds := syntheticBasket()

	scores, err := NewEngine(logger.NewNop()).Score(rows[:1], map[string]contracts.FundamentalsRecord{"A": funds["A"]}, contracts.DefaultWeights())
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 50.0, scores[0].Percentage)
}

func TestScoreAllMissingDataIsFifty(t *testing.T) {
	rows := []contracts.MetricsRow{{Ticker: "A"}, {Ticker: "B"}}

	scores, err := NewEngine(logger.NewNop()).Score(rows, nil, contracts.DefaultWeights())
	require.NoError(t, err)

	// Every column all-null: factors are 0, globals tie, percentage 50.
	for _, s := range scores {
		assert.Equal(t, 0.0, s.Global)
		assert.Equal(t, 50.0, s.Percentage)
	}
}

func TestScoreIsBasketRelative(t *testing.T) {
	rows, funds := syntheticBasket()
	e := NewEngine(logger.NewNop())

	full, err := e.Score(rows, funds, contracts.DefaultWeights())
	require.NoError(t, err)
	trimmed, err := e.Score(rows[:2], funds, contracts.DefaultWeights())
	require.NoError(t, err)

	// Same ticker, different basket, different percentage: B is worst of
	// the pair but middle of the trio.
	assert.Equal(t, 0.0, trimmed[1].Percentage)
	assert.NotEqual(t, full[1].Percentage, trimmed[1].Percentage)
}

func TestScoreMissingFundamentalsAreNeutral(t *testing.T) {
	rows, funds := syntheticBasket()
	delete(funds, "B")

	scores, err := NewEngine(logger.NewNop()).Score(rows, funds, contracts.DefaultWeights())
	require.NoError(t, err)

	// B's fundamental z-scores are missing, so Value and Quality are
	// exactly neutral; Momentum and Risk still rank it between A and C.
	assert.Equal(t, 0.0, scores[1].Value)
	assert.Equal(t, 0.0, scores[1].Quality)
	assert.Greater(t, scores[0].Momentum, scores[1].Momentum)
}

func TestScoreEmptyBasket(t *testing.T) {
	scores, err := NewEngine(logger.NewNop()).Score(nil, nil, contracts.DefaultWeights())
	require.NoError(t, err)
	assert.Empty(t, scores)
}
