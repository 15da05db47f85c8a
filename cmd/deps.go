package main

import (
	"time"

	"github.com/velosafe/safety-cli/internal/fetcher"
	"github.com/velosafe/safety-cli/internal/region"
)

// buildResolver wires the HTTP fetcher, the on-disk cache, and the catalog
// resolver from the loaded config.
func buildResolver() (*region.Resolver, *region.Cache, error) {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		Retry:        retryPolicy(),
		RateLimiters: fetcher.DefaultRateLimiters(),
	})

	ttl := time.Duration(cfg.Catalog.FreshnessDays) * 24 * time.Hour
	cache, err := region.NewCache(cfg.Cache.Dir, ttl, region.SystemClock())
	if err != nil {
		return nil, nil, err
	}

	return region.NewResolver(f, cache, cfg.Catalog.IndexURL, cfg.Catalog.BaseURL), cache, nil
}

func retryPolicy() fetcher.RetryPolicy {
	p := fetcher.DefaultRetryPolicy()
	if cfg.Fetch.MaxRetries > 0 {
		p.MaxAttempts = cfg.Fetch.MaxRetries
	}
	return p
}

func buildCache() (*region.Cache, error) {
	ttl := time.Duration(cfg.Catalog.FreshnessDays) * 24 * time.Hour
	return region.NewCache(cfg.Cache.Dir, ttl, region.SystemClock())
}
