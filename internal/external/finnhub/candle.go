package finnhub

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

// candleResponse is the /stock/candle payload. s is "ok" or "no_data".
type candleResponse struct {
	Status     string    `json:"s"`
	Closes     []float64 `json:"c"`
	Timestamps []int64   `json:"t"`
}

// rangeBufferDays pads the requested range so the calendar cutoff always
// has data on both sides of the bound.
const rangeBufferDays = 10

// FetchPrices fetches a ticker's daily candles for the window.
func (c *Client) FetchPrices(ctx context.Context, ticker string, w contracts.Window) (contracts.PriceSeries, error) {
	if !c.Configured() {
		return contracts.PriceSeries{Ticker: ticker}, fmt.Errorf("finnhub API key not configured")
	}

	to := c.unixNow()
	from := window.Cutoff(time.Unix(to, 0).UTC(), w).AddDate(0, 0, -rangeBufferDays).Unix()

	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("resolution", "D")
	params.Set("from", strconv.FormatInt(from, 10))
	params.Set("to", strconv.FormatInt(to, 10))
	params.Set("token", c.apiKey)

	body, err := c.getJSON(ctx, c.baseURL+"/stock/candle?"+params.Encode())
	if err != nil {
		return contracts.PriceSeries{Ticker: ticker}, err
	}

	series, err := parseCandles(ticker, body)
	if err != nil {
		return contracts.PriceSeries{Ticker: ticker}, err
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  series.Len(),
	}).Debug("Fetched Finnhub candles")

	return window.Series(series, w), nil
}

func (c *Client) unixNow() int64 {
	if c.now != nil {
		return c.now()
	}
	return time.Now().Unix()
}

func parseCandles(ticker string, body []byte) (contracts.PriceSeries, error) {
	var parsed candleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("parse candle response failed: %w", err)
	}

	if parsed.Status != "ok" {
		return contracts.PriceSeries{}, fmt.Errorf("candle API status: %q", parsed.Status)
	}
	if len(parsed.Closes) != len(parsed.Timestamps) {
		return contracts.PriceSeries{}, fmt.Errorf("candle response has mismatched arrays")
	}

	obs := make([]contracts.Observation, 0, len(parsed.Closes))
	for i, ts := range parsed.Timestamps {
		t := time.Unix(ts, 0).UTC()
		obs = append(obs, contracts.Observation{
			Date:  time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Close: parsed.Closes[i],
		})
	}

	return contracts.NewPriceSeries(ticker, obs), nil
}
