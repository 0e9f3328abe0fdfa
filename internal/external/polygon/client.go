package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/pkg/config"
	"github.com/fantazia-finance/terminal/pkg/httputil"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// Name identifies this provider in source attribution.
const Name = "polygon"

// Client handles communication with the Polygon.io REST API. Polygon
// serves only the realtime last-trade overlay, never history.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new Polygon client.
func NewClient(httpClient *httputil.Client, cfg config.PolygonConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// lastTradeResponse is the v2 last-trade payload; last.t is Unix
// milliseconds.
type lastTradeResponse struct {
	Status string `json:"status"`
	Last   *struct {
		Price     float64 `json:"p"`
		Timestamp int64   `json:"t"`
	} `json:"last"`
}

// LastTrade fetches the most recent trade for a ticker. Returns nil
// without error when the provider is not configured, so callers can
// degrade to close-only data.
func (c *Client) LastTrade(ctx context.Context, ticker string) (*contracts.LastTrade, error) {
	if !c.Configured() {
		return nil, nil
	}

	fullURL := fmt.Sprintf("%s/v2/last/trade/%s?apiKey=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.apiKey))

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	var parsed lastTradeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse last trade failed: %w", err)
	}
	if parsed.Last == nil {
		return nil, fmt.Errorf("last trade response has no trade")
	}

	trade := &contracts.LastTrade{
		Ticker: ticker,
		Price:  parsed.Last.Price,
		At:     time.UnixMilli(parsed.Last.Timestamp).UTC(),
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"price":  trade.Price,
	}).Debug("Fetched Polygon last trade")

	return trade, nil
}
