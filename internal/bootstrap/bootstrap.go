// Package bootstrap turns a config into the running pieces the binaries share.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TemirB/patterns/internal/application/lookup"
	"github.com/TemirB/patterns/internal/application/pricing"
	"github.com/TemirB/patterns/internal/cache"
	"github.com/TemirB/patterns/internal/config"
	"github.com/TemirB/patterns/internal/database"
	"github.com/TemirB/patterns/internal/domain"
	"github.com/TemirB/patterns/internal/observability"
	"github.com/TemirB/patterns/internal/pkg/circuit"
	"github.com/TemirB/patterns/internal/userapi"
)

// NewLogger returns a development logger for LOG_LEVEL=debug and a
// production one otherwise.
func NewLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Chain builds the lookup chain in LOOKUP_CHAIN order and warms the cache
// from the repository when both are present. The returned func releases
// redis and postgres connections.
func Chain(ctx context.Context, cfg config.Config, logger *zap.Logger) (*lookup.Chain, func(), error) {
	var (
		sources  []lookup.Source
		closers  []func()
		lru      *cache.LRU
		repo     domain.UserRepository
		closeAll = func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	)

	for _, name := range cfg.LookupChain {
		switch name {
		case config.SourceCache:
			c, err := cache.New(cfg.CacheCap)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("cache: %w", err)
			}
			lru = c
			sources = append(sources, c)

		case config.SourceRedis:
			client, err := cache.DialRedis(ctx, cfg.Redis)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, func() { _ = client.Close() })
			sources = append(sources, cache.NewRedis(client, cfg.Redis.TTL, logger))

		case config.SourceMemory:
			m := database.NewMemory()
			repo = m
			sources = append(sources, m)

		case config.SourcePostgres:
			pool, err := database.Connect(ctx, cfg.DSN(), cfg.Retry, logger)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, pool.Close)
			r := database.New(pool, cfg.Tables)
			if err := r.EnsureSchema(ctx); err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("ensure schema: %w", err)
			}
			repo = r
			sources = append(sources, r)

		case config.SourceAPI:
			if cfg.UserAPI.BaseURL == "" {
				closeAll()
				return nil, nil, fmt.Errorf("api source needs USER_API_URL")
			}
			sources = append(sources, userapi.New(cfg.UserAPI.BaseURL, cfg.UserAPI.Timeout, circuit.FromConfig(cfg.Breaker), logger))

		default:
			closeAll()
			return nil, nil, fmt.Errorf("unknown lookup source %q", name)
		}
	}

	chain, err := lookup.NewChain(sources...)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if lru != nil && repo != nil {
		lru.Warm(ctx, repo)
		logger.Info("cache warmed", zap.Int("users", lru.Len()))
	}
	return chain, closeAll, nil
}

// Engine builds the pricing engine from PRICING_RULES, falling back to the
// built-in order when the list is empty.
func Engine(cfg config.Config, logger *zap.Logger, metrics observability.Metrics) (*pricing.Engine, error) {
	names := cfg.PricingRules
	if len(names) == 0 {
		names = pricing.DefaultRuleNames()
	}
	rules, err := pricing.DefaultRegistry().Build(names)
	if err != nil {
		return nil, err
	}
	return pricing.NewEngine(logger, metrics, rules...)
}
