package contracts

import "fmt"

// Weights are the factor blend weights. They are non-negative and need not
// sum to 1; the scoring engine normalizes them by their sum.
type Weights struct {
	Value    float64 `json:"value"`
	Quality  float64 `json:"quality"`
	Momentum float64 `json:"momentum"`
	Risk     float64 `json:"risk"`
}

// DefaultWeights is the documented degenerate-weights fallback split.
func DefaultWeights() Weights {
	return Weights{
		Value:    0.28,
		Quality:  0.30,
		Momentum: 0.27,
		Risk:     0.15,
	}
}

// Validate rejects negative weights. A negative weight is a caller bug,
// not a data condition.
func (w Weights) Validate() error {
	if w.Value < 0 || w.Quality < 0 || w.Momentum < 0 || w.Risk < 0 {
		return fmt.Errorf("%w: got (%v, %v, %v, %v)",
			ErrNegativeWeight, w.Value, w.Quality, w.Momentum, w.Risk)
	}
	return nil
}

// Describe renders the normalized blend as display text, e.g.
// "28% Value + 30% Quality + 27% Momentum + 15% Risk".
func (w Weights) Describe() string {
	n := w.Normalize()
	return fmt.Sprintf("%.0f%% Value + %.0f%% Quality + %.0f%% Momentum + %.0f%% Risk",
		n.Value*100, n.Quality*100, n.Momentum*100, n.Risk*100)
}

// Normalize scales the weights to sum to 1. A zero sum falls back to the
// default split, so (0,0,0,0) blends exactly like DefaultWeights.
func (w Weights) Normalize() Weights {
	sum := w.Value + w.Quality + w.Momentum + w.Risk
	if sum <= 0 {
		return DefaultWeights()
	}
	return Weights{
		Value:    w.Value / sum,
		Quality:  w.Quality / sum,
		Momentum: w.Momentum / sum,
		Risk:     w.Risk / sum,
	}
}

// FactorScores holds one ticker's basket-relative factor scores. The four
// factors are roughly zero-mean and unit-scale within the basket; Global
// is their weighted blend and Percentage its min-max rescale to [0,100].
// Entirely derived; recomputed whenever basket, window or weights change.
type FactorScores struct {
	Ticker string `json:"ticker"`

	Value    float64 `json:"value"`
	Quality  float64 `json:"quality"`
	Momentum float64 `json:"momentum"`
	Risk     float64 `json:"risk"`

	Global     float64 `json:"global"`
	Percentage float64 `json:"percentage"`
}

// ScoredRow is one line of the output table: everything the presentation
// layer needs for a ticker.
type ScoredRow struct {
	Ticker string `json:"ticker"`
	// Source is the provider that served the price history.
	Source string `json:"source"`

	Fundamentals FundamentalsRecord `json:"fundamentals"`
	Metrics      MetricsRow         `json:"metrics"`
	Scores       FactorScores       `json:"scores"`

	// ScoresPerso carries the parallel custom-weights scores when a
	// custom-weights mode is active; nil otherwise.
	ScoresPerso *FactorScores `json:"scores_perso,omitempty"`
}
