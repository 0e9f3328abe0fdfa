package contracts

import "time"

// FundamentalsRecord is a per-ticker snapshot of descriptive and valuation
// fields. Every numeric field is independently optional; a total provider
// failure yields a record of all-nulls, never a dropped ticker.
type FundamentalsRecord struct {
	Ticker string `json:"ticker"`

	Name     string `json:"name,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
	Country  string `json:"country,omitempty"`
	Currency string `json:"currency,omitempty"`
	Exchange string `json:"exchange,omitempty"`

	MarketCap     *float64 `json:"market_cap,omitempty"`
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	PBRatio       *float64 `json:"pb_ratio,omitempty"`
	ROE           *float64 `json:"roe,omitempty"`
	NetMargin     *float64 `json:"net_margin,omitempty"`
	DebtRatio     *float64 `json:"debt_ratio,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
	EPS           *float64 `json:"eps,omitempty"`
	High52W       *float64 `json:"high_52w,omitempty"`
	Low52W        *float64 `json:"low_52w,omitempty"`

	Recommendation string `json:"recommendation,omitempty"`
}

// EmptyFundamentals returns the all-null record for a ticker.
func EmptyFundamentals(ticker string) FundamentalsRecord {
	return FundamentalsRecord{Ticker: ticker}
}

// LastTrade is one real-time quote from the realtime provider.
type LastTrade struct {
	Ticker string    `json:"ticker"`
	Price  float64   `json:"price"`
	At     time.Time `json:"at"`
}
