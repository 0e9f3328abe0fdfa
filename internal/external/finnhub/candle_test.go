package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
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

	return NewClient(hc, config.FinnhubConfig{APIKey: apiKey, BaseURL: srv.URL}, log)
}

func TestFetchPricesParsesCandles(t *testing.T) {
	fixedNow := time.Date(2024, 6, 18, 21, 0, 0, 0, time.UTC)

	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "D", r.URL.Query().Get("resolution"))
		assert.Equal(t, "key", r.URL.Query().Get("token"))

		from, err := strconv.ParseInt(r.URL.Query().Get("from"), 10, 64)
		require.NoError(t, err)
		// One month back plus buffer: 2024-05-18 21:00 minus 10 days.
		assert.Equal(t, time.Date(2024, 5, 8, 21, 0, 0, 0, time.UTC).Unix(), from)

		w.Write([]byte(`{
		  "s": "ok",
		  "c": [212.49, 216.67, 214.29],
		  "t": [1718323200, 1718582400, 1718668800]
		}`))
	})
	c.now = func() int64 { return fixedNow.Unix() }

	s, err := c.FetchPrices(context.Background(), "AAPL", contracts.Window1Mo)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, 212.49, s.First().Close)
	assert.Equal(t, time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), s.First().Date)
}

func TestFetchPricesNoData(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s":"no_data"}`))
	})

	_, err := c.FetchPrices(context.Background(), "NOPE", contracts.Window1Y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_data")
}

func TestFetchPricesWithoutKeyFails(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unconfigured client must not hit the network")
	})

	_, err := c.FetchPrices(context.Background(), "AAPL", contracts.Window1Y)
	require.Error(t, err)
}

func TestFetchPricesMismatchedArrays(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s":"ok","c":[1.0],"t":[1718323200, 1718582400]}`))
	})

	_, err := c.FetchPrices(context.Background(), "AAPL", contracts.Window1Y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatched")
}
