package market

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// Source modes select which providers participate in resolution.
const (
	ModeAuto       = "auto"
	ModeYahoo      = "yahoo"
	ModeTwelveData = "twelvedata"
	ModeFinnhub    = "finnhub"
)

// maxConcurrentFetches bounds the parallel provider calls per basket.
const maxConcurrentFetches = 4

// Resolver turns a list of tickers into a price matrix by walking a
// provider chain per ticker. Within one ticker the chain is strictly
// ordered; across tickers resolution runs concurrently.
type Resolver struct {
	yahoo      Provider
	twelvedata Provider
	finnhub    Provider
	logger     *logger.Logger
}

// NewResolver creates a resolver over the three history providers.
func NewResolver(yahoo, twelvedata, finnhub Provider, log *logger.Logger) *Resolver {
	return &Resolver{
		yahoo:      yahoo,
		twelvedata: twelvedata,
		finnhub:    finnhub,
		logger:     log,
	}
}

// ChainFor returns the ordered provider chain for a source mode.
// Unknown modes fall back to the auto chain.
func (r *Resolver) ChainFor(mode string) []Provider {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeYahoo:
		return []Provider{r.yahoo}
	case ModeTwelveData:
		return []Provider{r.twelvedata}
	case ModeFinnhub:
		return []Provider{r.finnhub}
	}
	return []Provider{r.yahoo, r.twelvedata, r.finnhub}
}

// NormalizeTickers trims, uppercases and dedupes while preserving first
// occurrence order. A ticker that is empty after trimming is an error.
func NormalizeTickers(tickers []string) ([]string, error) {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, raw := range tickers {
		t := strings.ToUpper(strings.TrimSpace(raw))
		if t == "" {
			return nil, fmt.Errorf("%w: %q", contracts.ErrEmptyTicker, raw)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

// Resolve fetches history for every ticker through the chain for mode.
// The returned source map has one entry per requested ticker; tickers no
// provider could serve map to SourceNone and stay out of the matrix.
func (r *Resolver) Resolve(ctx context.Context, tickers []string, w contracts.Window, mode string) (*contracts.PriceMatrix, contracts.SourceMap, error) {
	normalized, err := NormalizeTickers(tickers)
	if err != nil {
		return nil, nil, err
	}

	chain := r.ChainFor(mode)
	results := make([]contracts.PriceSeries, len(normalized))
	sources := make([]string, len(normalized))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentFetches)

	for i, ticker := range normalized {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i], sources[i] = r.resolveOne(ctx, ticker, w, chain)
		}(i, ticker)
	}
	wg.Wait()

	matrix := contracts.NewPriceMatrix()
	sourceMap := make(contracts.SourceMap, len(normalized))
	for i, ticker := range normalized {
		sourceMap[ticker] = sources[i]
		if !results[i].Empty() {
			matrix.Add(results[i])
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"requested": len(normalized),
		"resolved":  matrix.Len(),
		"window":    string(w),
		"mode":      mode,
	}).Info("Resolved basket history")

	return matrix, sourceMap, nil
}

// resolveOne walks the chain in order and stops at the first provider
// that returns any observations.
func (r *Resolver) resolveOne(ctx context.Context, ticker string, w contracts.Window, chain []Provider) (contracts.PriceSeries, string) {
	for _, p := range chain {
		if s := p.Fetch(ctx, ticker, w); !s.Empty() {
			return s, p.Name()
		}
	}
	return contracts.PriceSeries{Ticker: ticker}, contracts.SourceNone
}
