package scoring

import (
	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// Engine turns metrics and fundamentals into basket-relative factor
// scores. It is a pure function of its inputs: same basket, same window,
// same weights — same scores.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a scoring engine.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Score computes factor scores for every metrics row. Fundamentals are
// matched by ticker; a ticker without a record scores as all-missing on
// the fundamental columns. Missing data never raises: it degrades to a
// neutral zero contribution per column.
func (e *Engine) Score(rows []contracts.MetricsRow, fundamentals map[string]contracts.FundamentalsRecord, weights contracts.Weights) ([]contracts.FactorScores, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	w := weights.Normalize()

	n := len(rows)
	if n == 0 {
		return []contracts.FactorScores{}, nil
	}

	cols := buildColumns(rows, fundamentals)

	zPE := ZScores(cols.pe)
	zPB := ZScores(cols.pb)
	zROE := ZScores(cols.roe)
	zMargin := ZScores(cols.margin)
	zDebt := ZScores(cols.debt)
	zRet6M := ZScores(cols.ret6m)
	zRet1Y := ZScores(cols.ret1y)
	zVol := ZScores(cols.vol)
	zDD := ZScores(cols.dd)

	out := make([]contracts.FactorScores, n)
	for i, row := range rows {
		// Sign conventions are part of the contract: cheap, profitable,
		// trending and smooth all push the score up.
		value := (-z(zPE[i]) + -z(zPB[i])) / 2
		quality := (z(zROE[i]) + z(zMargin[i]) + -z(zDebt[i])) / 3
		momentum := (z(zRet6M[i]) + z(zRet1Y[i])) / 2
		risk := (-z(zVol[i]) + z(zDD[i])) / 2

		out[i] = contracts.FactorScores{
			Ticker:   row.Ticker,
			Value:    value,
			Quality:  quality,
			Momentum: momentum,
			Risk:     risk,
			Global:   w.Value*value + w.Quality*quality + w.Momentum*momentum + w.Risk*risk,
		}
	}

	rescale(out)
	return out, nil
}

// z is the neutral-on-missing read used when blending factors.
func z(p *float64) float64 {
	return contracts.OrZero(p)
}

// columns are the nine standardized inputs, one slice per metric.
type columns struct {
	pe, pb, roe, margin, debt []*float64
	ret6m, ret1y, vol, dd     []*float64
}

func buildColumns(rows []contracts.MetricsRow, fundamentals map[string]contracts.FundamentalsRecord) columns {
	n := len(rows)
	c := columns{
		pe: make([]*float64, n), pb: make([]*float64, n),
		roe: make([]*float64, n), margin: make([]*float64, n), debt: make([]*float64, n),
		ret6m: make([]*float64, n), ret1y: make([]*float64, n),
		vol: make([]*float64, n), dd: make([]*float64, n),
	}
	for i, row := range rows {
		f := fundamentals[row.Ticker]
		c.pe[i] = f.PERatio
		c.pb[i] = f.PBRatio
		c.roe[i] = f.ROE
		c.margin[i] = f.NetMargin
		c.debt[i] = f.DebtRatio
		c.ret6m[i] = row.Return6M
		c.ret1y[i] = row.Return1Y
		c.vol[i] = row.Volatility
		c.dd[i] = row.MaxDrawdown
	}
	return c
}

// rescale maps Global onto [0,100] by basket min-max. A degenerate
// basket (single ticker, or all tied) pins every ticker at exactly 50.
func rescale(scores []contracts.FactorScores) {
	min, max := scores[0].Global, scores[0].Global
	for _, s := range scores[1:] {
		if s.Global < min {
			min = s.Global
		}
		if s.Global > max {
			max = s.Global
		}
	}

	if max == min {
		for i := range scores {
			scores[i].Percentage = 50.0
		}
		return
	}

	span := max - min
	for i := range scores {
		scores[i].Percentage = (scores[i].Global - min) / span * 100
	}
}
