package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fantazia-finance/terminal/internal/contracts"
)

// Column names a sortable numeric column of the scored table.
type Column string

const (
	ColumnPercentage Column = "percentage"
	ColumnGlobal     Column = "global"
	ColumnValue      Column = "value"
	ColumnQuality    Column = "quality"
	ColumnMomentum   Column = "momentum"
	ColumnRisk       Column = "risk"
	ColumnReturn1M   Column = "return_1m"
	ColumnReturn3M   Column = "return_3m"
	ColumnReturn6M   Column = "return_6m"
	ColumnReturn1Y   Column = "return_1y"
	ColumnVolatility Column = "volatility"
	ColumnDrawdown   Column = "max_drawdown"
	ColumnMarketCap  Column = "market_cap"
	ColumnPE         Column = "pe_ratio"
)

// extractors pull the sortable value out of a row; nil means the row has
// no value in that column.
var extractors = map[Column]func(contracts.ScoredRow) *float64{
	ColumnPercentage: func(r contracts.ScoredRow) *float64 { return &r.Scores.Percentage },
	ColumnGlobal:     func(r contracts.ScoredRow) *float64 { return &r.Scores.Global },
	ColumnValue:      func(r contracts.ScoredRow) *float64 { return &r.Scores.Value },
	ColumnQuality:    func(r contracts.ScoredRow) *float64 { return &r.Scores.Quality },
	ColumnMomentum:   func(r contracts.ScoredRow) *float64 { return &r.Scores.Momentum },
	ColumnRisk:       func(r contracts.ScoredRow) *float64 { return &r.Scores.Risk },
	ColumnReturn1M:   func(r contracts.ScoredRow) *float64 { return r.Metrics.Return1M },
	ColumnReturn3M:   func(r contracts.ScoredRow) *float64 { return r.Metrics.Return3M },
	ColumnReturn6M:   func(r contracts.ScoredRow) *float64 { return r.Metrics.Return6M },
	ColumnReturn1Y:   func(r contracts.ScoredRow) *float64 { return r.Metrics.Return1Y },
	ColumnVolatility: func(r contracts.ScoredRow) *float64 { return r.Metrics.Volatility },
	ColumnDrawdown:   func(r contracts.ScoredRow) *float64 { return r.Metrics.MaxDrawdown },
	ColumnMarketCap:  func(r contracts.ScoredRow) *float64 { return r.Fundamentals.MarketCap },
	ColumnPE:         func(r contracts.ScoredRow) *float64 { return r.Fundamentals.PERatio },
}

// ParseColumn validates a column name from the API surface.
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := extractors[c]; !ok {
		return "", fmt.Errorf("unknown sort column %q", s)
	}
	return c, nil
}

// Sort orders rows by the column, stably, in place. Null values sort
// after everything else regardless of direction, matching SQL NULLS LAST.
func Sort(rows []contracts.ScoredRow, col Column, ascending bool) {
	extract, ok := extractors[col]
	if !ok {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := extract(rows[i]), extract(rows[j])
		switch {
		case vi == nil && vj == nil:
			return false
		case vi == nil:
			return false
		case vj == nil:
			return true
		case ascending:
			return *vi < *vj
		default:
			return *vi > *vj
		}
	})
}

// Predicate selects rows to keep. Filtering never recomputes scores:
// scores are always computed over the full requested basket first.
type Predicate func(contracts.ScoredRow) bool

// Filter returns the rows matching every predicate, in input order.
func Filter(rows []contracts.ScoredRow, preds ...Predicate) []contracts.ScoredRow {
	out := make([]contracts.ScoredRow, 0, len(rows))
	for _, r := range rows {
		keep := true
		for _, p := range preds {
			if !p(r) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

// MinPercentage keeps rows at or above a score threshold.
func MinPercentage(min float64) Predicate {
	return func(r contracts.ScoredRow) bool {
		return r.Scores.Percentage >= min
	}
}

// PositiveReturn1Y drops rows with a negative (or missing) 1-year return.
func PositiveReturn1Y() Predicate {
	return func(r contracts.ScoredRow) bool {
		return r.Metrics.Return1Y != nil && *r.Metrics.Return1Y >= 0
	}
}

// SourceIs keeps rows served by one provider.
func SourceIs(source string) Predicate {
	return func(r contracts.ScoredRow) bool {
		return r.Source == source
	}
}
