package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/internal/window"
)

// timeSeriesResponse is the /time_series payload. Values arrive
// newest-first; errors come back as status=="error" with HTTP 200.
type timeSeriesResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Values  []struct {
		Datetime string `json:"datetime"`
		Close    string `json:"close"`
	} `json:"values"`
}

// FetchPrices fetches a ticker's daily close history for the window.
// Returns an error when unconfigured; the chain wrapper turns that into
// an empty series and moves on.
func (c *Client) FetchPrices(ctx context.Context, ticker string, w contracts.Window) (contracts.PriceSeries, error) {
	if !c.Configured() {
		return contracts.PriceSeries{Ticker: ticker}, fmt.Errorf("twelvedata API key not configured")
	}

	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("interval", "1day")
	params.Set("outputsize", strconv.Itoa(outputSize(w)))
	params.Set("format", "JSON")
	params.Set("apikey", c.apiKey)

	body, err := c.getJSON(ctx, c.baseURL+"/time_series?"+params.Encode())
	if err != nil {
		return contracts.PriceSeries{Ticker: ticker}, err
	}

	series, err := parseTimeSeries(ticker, body)
	if err != nil {
		return contracts.PriceSeries{Ticker: ticker}, err
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  series.Len(),
	}).Debug("Fetched Twelve Data prices")

	return window.Series(series, w), nil
}

func parseTimeSeries(ticker string, body []byte) (contracts.PriceSeries, error) {
	var parsed timeSeriesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("parse time_series failed: %w", err)
	}

	if parsed.Status == "error" {
		return contracts.PriceSeries{}, fmt.Errorf("time_series API error %d: %s", parsed.Code, parsed.Message)
	}

	obs := make([]contracts.Observation, 0, len(parsed.Values))
	for _, v := range parsed.Values {
		date, err := time.ParseInLocation("2006-01-02", v.Datetime, time.UTC)
		if err != nil {
			continue
		}
		close, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			continue
		}
		obs = append(obs, contracts.Observation{Date: date, Close: close})
	}

	// NewPriceSeries sorts ascending, undoing the newest-first order.
	return contracts.NewPriceSeries(ticker, obs), nil
}

// outputSize caps the bar count per window; daily bars mean roughly 252
// rows per year plus slack for the calendar cutoff.
func outputSize(w contracts.Window) int {
	switch w {
	case contracts.Window1D, contracts.Window5D:
		return 30
	case contracts.Window1Mo:
		return 60
	case contracts.Window3Mo:
		return 120
	case contracts.Window1Y:
		return 400
	case contracts.Window3Y:
		return 1200
	case contracts.Window5Y:
		return 2000
	}
	return 400
}
