package yahoo

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
const Name = "yahoo"

// Client handles communication with the Yahoo Finance public JSON APIs.
// Yahoo is the primary provider in the auto chain and needs no API key.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	pageURL    string
	adjusted   bool
}

// NewClient creates a new Yahoo Finance client.
func NewClient(httpClient *httputil.Client, cfg config.YahooConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		pageURL:    strings.TrimRight(cfg.PageURL, "/"),
		adjusted:   cfg.Adjusted,
	}
}

// getJSON fetches a URL and returns the response body. Yahoo endpoints
// reject requests without a browser-looking user agent.
func (c *Client) getJSON(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
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

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
