package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/internal/market"
	"github.com/fantazia-finance/terminal/internal/pipeline"
	"github.com/fantazia-finance/terminal/internal/ranking"
)

// scoreCmd runs one scoring pass and prints the ranked table.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a basket of tickers",
	Long: `Run one scoring pass over a basket and print the ranked table.

Examples:
  go run ./cmd/fantazia score --tickers AAPL,MSFT,NVDA
  go run ./cmd/fantazia score --preset mega-tech-us --window 3y
  go run ./cmd/fantazia score --preset us-banks --csv > banks.csv
  go run ./cmd/fantazia score --tickers AAPL,MSFT --weights 0.4,0.3,0.2,0.1`,
	RunE: runScore,
}

var (
	scoreTickers string
	scorePreset  string
	scoreWindow  string
	scoreSource  string
	scoreSort    string
	scoreAsc     bool
	scoreCSV     bool
	scoreWeights string
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreTickers, "tickers", "", "comma-separated tickers")
	scoreCmd.Flags().StringVar(&scorePreset, "preset", "", "built-in basket name")
	scoreCmd.Flags().StringVar(&scoreWindow, "window", "1y", "history window (1d|5d|1mo|3mo|1y|3y|5y)")
	scoreCmd.Flags().StringVar(&scoreSource, "source", "auto", "provider mode (auto|yahoo|twelvedata|finnhub)")
	scoreCmd.Flags().StringVar(&scoreSort, "sort", "percentage", "sort column")
	scoreCmd.Flags().BoolVar(&scoreAsc, "asc", false, "sort ascending")
	scoreCmd.Flags().BoolVar(&scoreCSV, "csv", false, "emit CSV instead of a text table")
	scoreCmd.Flags().StringVar(&scoreWeights, "weights", "", "custom factor weights as value,quality,momentum,risk")
}

func runScore(cmd *cobra.Command, args []string) error {
	var tickers []string
	switch {
	case scoreTickers != "":
		tickers = strings.Split(scoreTickers, ",")
	case scorePreset != "":
		p, err := market.PresetByName(scorePreset)
		if err != nil {
			return err
		}
		tickers = p.Tickers
	default:
		return fmt.Errorf("either --tickers or --preset is required")
	}

	w, err := contracts.ParseWindow(scoreWindow)
	if err != nil {
		return err
	}

	req := pipeline.Request{Tickers: tickers, Window: w, Mode: scoreSource}

	if scoreWeights != "" {
		weights, err := parseWeightsFlag(scoreWeights)
		if err != nil {
			return err
		}
		req.Weights = weights
	}

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	res, err := d.pipeline.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	col, err := ranking.ParseColumn(scoreSort)
	if err != nil {
		return err
	}
	ranking.Sort(res.Rows, col, scoreAsc)

	if scoreCSV {
		return ranking.WriteCSV(os.Stdout, res.Rows)
	}

	printTable(res)
	return nil
}

func parseWeightsFlag(s string) (*contracts.Weights, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("--weights needs four comma-separated numbers")
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%g", &vals[i]); err != nil {
			return nil, fmt.Errorf("invalid weight %q", p)
		}
	}
	return &contracts.Weights{Value: vals[0], Quality: vals[1], Momentum: vals[2], Risk: vals[3]}, nil
}

func printTable(res *pipeline.Result) {
	fmt.Printf("%-8s %-10s %8s %8s %8s %8s %8s %8s\n",
		"TICKER", "SOURCE", "VALUE", "QUALITY", "MOMENT", "RISK", "GLOBAL", "SCORE")

	for _, r := range res.Rows {
		fmt.Printf("%-8s %-10s %8.2f %8.2f %8.2f %8.2f %8.2f %8.1f\n",
			r.Ticker, r.Source,
			r.Scores.Value, r.Scores.Quality, r.Scores.Momentum, r.Scores.Risk,
			r.Scores.Global, r.Scores.Percentage)
	}

	for ticker, source := range res.Sources {
		if source == contracts.SourceNone {
			fmt.Printf("%-8s %-10s (no provider could serve this ticker)\n", ticker, source)
		}
	}
}
