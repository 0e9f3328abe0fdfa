package pipeline

import (
	"context"
	"time"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/pkg/logger"
	"github.com/fantazia-finance/terminal/pkg/redis"
)

// cachedFundamentals decorates a FundamentalsSource with Redis caching.
// Only records that carry at least one field are cached; the all-null
// degraded record is retried on the next pass.
type cachedFundamentals struct {
	inner  FundamentalsSource
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// WithFundamentalsCache wraps a source in the fundamentals cache. A nil
// cache returns the source unchanged.
func WithFundamentalsCache(src FundamentalsSource, cache *redis.Cache, ttl time.Duration, log *logger.Logger) FundamentalsSource {
	if cache == nil {
		return src
	}
	return &cachedFundamentals{inner: src, cache: cache, ttl: ttl, logger: log}
}

func (c *cachedFundamentals) FetchFundamentals(ctx context.Context, ticker string) contracts.FundamentalsRecord {
	key := redis.FundamentalsKey(ticker)

	var cached contracts.FundamentalsRecord
	hit, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		c.logger.WithError(err).Debug("Fundamentals cache read failed")
	}
	if hit && cached.Ticker == ticker {
		return cached
	}

	rec := c.inner.FetchFundamentals(ctx, ticker)
	if rec != contracts.EmptyFundamentals(ticker) {
		if err := c.cache.Set(ctx, key, rec, c.ttl); err != nil {
			c.logger.WithError(err).Debug("Fundamentals cache write failed")
		}
	}
	return rec
}
