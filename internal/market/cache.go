package market

import (
	"context"
	"time"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/pkg/logger"
	"github.com/fantazia-finance/terminal/pkg/redis"
)

// cachedProvider decorates a Provider with Redis caching keyed by
// (provider, ticker, window). Only non-empty series are stored, so a
// transient provider outage never pins an empty answer for the TTL.
type cachedProvider struct {
	inner  Provider
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// WithCache wraps a provider in the series cache. A nil cache returns
// the provider unchanged.
func WithCache(p Provider, cache *redis.Cache, ttl time.Duration, log *logger.Logger) Provider {
	if cache == nil {
		return p
	}
	return &cachedProvider{inner: p, cache: cache, ttl: ttl, logger: log}
}

func (p *cachedProvider) Name() string { return p.inner.Name() }

func (p *cachedProvider) Fetch(ctx context.Context, ticker string, w contracts.Window) contracts.PriceSeries {
	key := redis.SeriesKey(p.inner.Name(), ticker, string(w))

	var cached contracts.PriceSeries
	hit, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.logger.WithError(err).Debug("Series cache read failed")
	}
	if hit && !cached.Empty() {
		return cached
	}

	s := p.inner.Fetch(ctx, ticker, w)
	if !s.Empty() {
		if err := p.cache.Set(ctx, key, s, p.ttl); err != nil {
			p.logger.WithError(err).Debug("Series cache write failed")
		}
	}
	return s
}
