package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/internal/window"
)

// chartResponse mirrors the v8 chart API payload. Close arrays use
// *float64 because Yahoo emits JSON nulls on holidays and halts.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// FetchPrices fetches a ticker's daily close history for the window.
func (c *Client) FetchPrices(ctx context.Context, ticker string, w contracts.Window) (contracts.PriceSeries, error) {
	params := url.Values{}
	params.Set("range", chartRange(w))
	params.Set("interval", "1d")
	if c.adjusted {
		params.Set("includeAdjustedClose", "true")
	}

	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(ticker), params.Encode())

	body, err := c.getJSON(ctx, fullURL)
	if err != nil {
		return contracts.PriceSeries{Ticker: ticker}, err
	}

	series, err := c.parseChart(ticker, body)
	if err != nil {
		return contracts.PriceSeries{Ticker: ticker}, err
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  series.Len(),
	}).Debug("Fetched Yahoo prices")

	// Yahoo ranges overshoot for windows it has no exact bucket for;
	// trim against the data's own last timestamp.
	return window.Series(series, w), nil
}

// parseChart converts the chart payload into a canonical series.
func (c *Client) parseChart(ticker string, body []byte) (contracts.PriceSeries, error) {
	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("parse chart response failed: %w", err)
	}

	if parsed.Chart.Error != nil {
		return contracts.PriceSeries{}, fmt.Errorf("chart API error: %s", parsed.Chart.Error.Code)
	}
	if len(parsed.Chart.Result) == 0 {
		return contracts.PriceSeries{}, fmt.Errorf("chart response has no result")
	}

	result := parsed.Chart.Result[0]

	closes := c.pickCloses(result)
	if len(closes) == 0 || len(result.Timestamp) != len(closes) {
		return contracts.PriceSeries{}, fmt.Errorf("chart response has mismatched arrays")
	}

	obs := make([]contracts.Observation, 0, len(closes))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		obs = append(obs, contracts.Observation{
			Date:  toNaiveDay(ts),
			Close: *closes[i],
		})
	}

	return contracts.NewPriceSeries(ticker, obs), nil
}

func (c *Client) pickCloses(result chartResult) []*float64 {
	adj := result.Indicators.AdjClose
	if c.adjusted && len(adj) > 0 && len(adj[0].AdjClose) > 0 {
		return adj[0].AdjClose
	}
	if quote := result.Indicators.Quote; len(quote) > 0 {
		return quote[0].Close
	}
	return nil
}

// chartRange maps a window onto the closest Yahoo range bucket that fully
// covers it. There is no 3y bucket, so 3y rides on 5y and gets trimmed.
func chartRange(w contracts.Window) string {
	switch w {
	case contracts.Window1D:
		return "5d" // at least two sessions, so delta math has a base
	case contracts.Window5D:
		return "1mo"
	case contracts.Window1Mo:
		return "3mo"
	case contracts.Window3Mo:
		return "6mo"
	case contracts.Window1Y:
		return "2y"
	case contracts.Window3Y, contracts.Window5Y:
		return "5y"
	}
	return "1y"
}

// toNaiveDay normalizes a unix timestamp to a timezone-naive daily date.
func toNaiveDay(unix int64) time.Time {
	t := time.Unix(unix, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
