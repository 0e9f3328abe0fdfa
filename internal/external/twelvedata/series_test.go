package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/pkg/config"
	"github.com/fantazia-finance/terminal/pkg/httputil"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logger.NewNop()
	hc := httputil.New(log, 5*time.Second)
	hc.DisableRetry()

	return NewClient(hc, config.TwelveDataConfig{APIKey: apiKey, BaseURL: srv.URL}, log)
}

func TestFetchPricesSortsAscending(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1day", r.URL.Query().Get("interval"))
		assert.Equal(t, "key", r.URL.Query().Get("apikey"))
		// Newest-first, as the API delivers.
		w.Write([]byte(`{
		  "status": "ok",
		  "values": [
		    {"datetime": "2024-06-18", "close": "214.29"},
		    {"datetime": "2024-06-17", "close": "216.67"},
		    {"datetime": "2024-06-14", "close": "212.49"}
		  ]
		}`))
	})

	s, err := c.FetchPrices(context.Background(), "AAPL", contracts.Window1Mo)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, 212.49, s.First().Close)
	assert.Equal(t, 214.29, s.Last().Close)
	assert.True(t, s.First().Date.Before(s.Last().Date))
}

func TestFetchPricesWithoutKeyFails(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unconfigured client must not hit the network")
	})

	_, err := c.FetchPrices(context.Background(), "AAPL", contracts.Window1Y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestFetchPricesStatusError(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","code":429,"message":"You have run out of API credits"}`))
	})

	_, err := c.FetchPrices(context.Background(), "AAPL", contracts.Window1Y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFetchPricesSkipsMalformedRows(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
		  "status": "ok",
		  "values": [
		    {"datetime": "2024-06-18", "close": "not-a-number"},
		    {"datetime": "2024-06-17", "close": "216.67"}
		  ]
		}`))
	})

	s, err := c.FetchPrices(context.Background(), "AAPL", contracts.Window1Mo)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 216.67, s.Last().Close)
}
