package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fantazia-finance/terminal/internal/market"
)

// presetsCmd lists the built-in sector baskets.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in sector baskets",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range market.Presets() {
			fmt.Printf("%-16s %-20s %s\n", p.Name, p.Label, strings.Join(p.Tickers, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
