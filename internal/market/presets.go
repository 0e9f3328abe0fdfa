package market

import (
	"fmt"
	"sort"
)

// Preset is a named basket of tickers.
type Preset struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Tickers []string `json:"tickers"`
}

// presets are the built-in sector baskets.
var presets = map[string]Preset{
	"mega-tech-us": {
		Name:    "mega-tech-us",
		Label:   "Mega Tech US",
		Tickers: []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA"},
	},
	"semiconductors": {
		Name:    "semiconductors",
		Label:   "Semiconductors",
		Tickers: []string{"NVDA", "AMD", "INTC", "TSM", "ASML"},
	},
	"us-banks": {
		Name:    "us-banks",
		Label:   "US Banks",
		Tickers: []string{"JPM", "BAC", "WFC", "C", "GS", "MS"},
	},
	"oil-energy": {
		Name:    "oil-energy",
		Label:   "Oil & Energy",
		Tickers: []string{"XOM", "CVX", "SHEL", "TTE", "BP"},
	},
	"luxury-europe": {
		Name:    "luxury-europe",
		Label:   "Luxury (Europe)",
		Tickers: []string{"MC.PA", "RMS.PA", "KER.PA", "PRU.L", "BRBY.L"},
	},
}

// PresetByName looks up a built-in basket.
func PresetByName(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}

// Presets lists all built-in baskets, sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
