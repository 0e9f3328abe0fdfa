package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "fantazia",
	Short: "Fantazia Terminal - basket-relative stock scoring",
	Long: `Fantazia Terminal

Multi-factor, basket-relative stock scoring over multi-provider market
data. Resolves price history through a Yahoo/TwelveData/Finnhub fallback
chain, computes return/volatility/drawdown metrics, and blends Value,
Quality, Momentum and Risk factors into a 0-100 Fantazia Score.

Usage:
  go run ./cmd/fantazia [command]

Examples:
  go run ./cmd/fantazia score --tickers AAPL,MSFT,NVDA
  go run ./cmd/fantazia score --preset mega-tech-us --window 1y --csv
  go run ./cmd/fantazia api
  go run ./cmd/fantazia scheduler`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
