package market

import (
	"context"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/internal/external/finnhub"
	"github.com/fantazia-finance/terminal/internal/external/twelvedata"
	"github.com/fantazia-finance/terminal/internal/external/yahoo"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// Provider is one history source in the fallback chain. Fetch never
// returns an error: adapter failures are absorbed into an empty series,
// which the resolver reads as "try the next provider".
type Provider interface {
	Name() string
	Fetch(ctx context.Context, ticker string, w contracts.Window) contracts.PriceSeries
}

// fetcher is what the concrete adapter clients expose.
type fetcher interface {
	FetchPrices(ctx context.Context, ticker string, w contracts.Window) (contracts.PriceSeries, error)
}

// softProvider adapts a client to the Provider contract, downgrading
// errors to empty series with a debug log.
type softProvider struct {
	name   string
	client fetcher
	logger *logger.Logger
}

func (p *softProvider) Name() string { return p.name }

func (p *softProvider) Fetch(ctx context.Context, ticker string, w contracts.Window) contracts.PriceSeries {
	s, err := p.client.FetchPrices(ctx, ticker, w)
	if err != nil {
		p.logger.WithFields(map[string]interface{}{
			"provider": p.name,
			"ticker":   ticker,
			"error":    err.Error(),
		}).Debug("Provider fetch failed")
		return contracts.PriceSeries{Ticker: ticker}
	}
	return s
}

// NewYahooProvider wraps the Yahoo client as a chain provider.
func NewYahooProvider(c *yahoo.Client, log *logger.Logger) Provider {
	return &softProvider{name: yahoo.Name, client: c, logger: log}
}

// NewTwelveDataProvider wraps the Twelve Data client as a chain provider.
func NewTwelveDataProvider(c *twelvedata.Client, log *logger.Logger) Provider {
	return &softProvider{name: twelvedata.Name, client: c, logger: log}
}

// NewFinnhubProvider wraps the Finnhub client as a chain provider.
func NewFinnhubProvider(c *finnhub.Client, log *logger.Logger) Provider {
	return &softProvider{name: finnhub.Name, client: c, logger: log}
}
