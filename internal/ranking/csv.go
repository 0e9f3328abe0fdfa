package ranking

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fantazia-finance/terminal/internal/contracts"
)

// csvHeader lists the export columns in display order.
var csvHeader = []string{
	"Ticker", "Source", "Name", "Sector",
	"Perf 1M", "Perf 3M", "Perf 6M", "Perf 1Y",
	"Volatility", "Max Drawdown",
	"Value", "Quality", "Momentum", "Risk",
	"Global Score", "Fantazia Score",
}

// WriteCSV renders the scored table as CSV. Numeric cells round to two
// decimals; nulls render as empty cells.
func WriteCSV(w io.Writer, rows []contracts.ScoredRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write CSV header failed: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Ticker,
			r.Source,
			r.Fundamentals.Name,
			r.Fundamentals.Sector,
			cell(r.Metrics.Return1M),
			cell(r.Metrics.Return3M),
			cell(r.Metrics.Return6M),
			cell(r.Metrics.Return1Y),
			cell(r.Metrics.Volatility),
			cell(r.Metrics.MaxDrawdown),
			fmt.Sprintf("%.2f", r.Scores.Value),
			fmt.Sprintf("%.2f", r.Scores.Quality),
			fmt.Sprintf("%.2f", r.Scores.Momentum),
			fmt.Sprintf("%.2f", r.Scores.Risk),
			fmt.Sprintf("%.2f", r.Scores.Global),
			fmt.Sprintf("%.2f", r.Scores.Percentage),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write CSV row failed: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func cell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
