package finnhub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fantazia-finance/terminal/pkg/config"
	"github.com/fantazia-finance/terminal/pkg/httputil"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// Name identifies this provider in source attribution.
const Name = "finnhub"

// Client handles communication with the Finnhub REST API. Last resort of
// the auto chain; key-gated like Twelve Data.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string

	// now is swappable so candle range tests are deterministic.
	now func() int64
}

// NewClient creates a new Finnhub client.
func NewClient(httpClient *httputil.Client, cfg config.FinnhubConfig, log *logger.Logger) *Client {
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

func (c *Client) getJSON(ctx context.Context, fullURL string) ([]byte, error) {
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

	return body, nil
}
