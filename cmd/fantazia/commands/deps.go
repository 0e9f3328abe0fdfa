package commands

import (
	"fmt"

	"github.com/fantazia-finance/terminal/internal/external/finnhub"
	"github.com/fantazia-finance/terminal/internal/external/polygon"
	"github.com/fantazia-finance/terminal/internal/external/twelvedata"
	"github.com/fantazia-finance/terminal/internal/external/yahoo"
	"github.com/fantazia-finance/terminal/internal/market"
	"github.com/fantazia-finance/terminal/internal/pipeline"
	"github.com/fantazia-finance/terminal/pkg/config"
	"github.com/fantazia-finance/terminal/pkg/httputil"
	"github.com/fantazia-finance/terminal/pkg/logger"
	"github.com/fantazia-finance/terminal/pkg/redis"
)

// deps is the shared wiring every command builds on.
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	redis    *redis.Client
	pipeline *pipeline.Pipeline
	polygon  *polygon.Client
}

// buildDeps wires config, providers, cache and the scoring pipeline.
func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var cache *redis.Cache
	if redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "fantazia")
		log.Info("Provider cache enabled")
	}

	// Yahoo tolerates bursts; the keyed free tiers are strict.
	yahooHTTP := httputil.New(log, cfg.Providers.Timeout)
	twelveHTTP := httputil.New(log, cfg.Providers.Timeout).WithRateLimit(0.15, 1)
	finnhubHTTP := httputil.New(log, cfg.Providers.Timeout).WithRateLimit(0.5, 2)
	polygonHTTP := httputil.New(log, cfg.Providers.Timeout).WithRateLimit(1, 2)

	yahooClient := yahoo.NewClient(yahooHTTP, cfg.Providers.Yahoo, log)
	twelveClient := twelvedata.NewClient(twelveHTTP, cfg.Providers.TwelveData, log)
	finnhubClient := finnhub.NewClient(finnhubHTTP, cfg.Providers.Finnhub, log)
	polygonClient := polygon.NewClient(polygonHTTP, cfg.Providers.Polygon, log)

	ttl := cfg.Providers.CacheTTL
	resolver := market.NewResolver(
		market.WithCache(market.NewYahooProvider(yahooClient, log), cache, ttl, log),
		market.WithCache(market.NewTwelveDataProvider(twelveClient, log), cache, ttl, log),
		market.WithCache(market.NewFinnhubProvider(finnhubClient, log), cache, ttl, log),
		log,
	)

	fundamentals := pipeline.WithFundamentalsCache(yahooClient, cache, ttl, log)

	if keys := cfg.APIKeysDetected(); len(keys) > 0 {
		log.WithField("providers", keys).Info("API keys detected")
	}

	return &deps{
		cfg:      cfg,
		log:      log,
		redis:    redisClient,
		pipeline: pipeline.New(resolver, fundamentals, log),
		polygon:  polygonClient,
	}, nil
}

// close releases shared resources.
func (d *deps) close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
}
