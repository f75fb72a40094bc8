package search

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// throttledProvider wraps a provider with a rate limiter and a short
// response cache so repeated claim keywords do not burn quota.
type throttledProvider struct {
	inner   Provider
	limiter *rate.Limiter
	cache   *cache.Cache
}

// Throttle wraps a provider with rate limiting and response caching.
// A nil provider passes through unchanged.
func Throttle(inner Provider, perSecond float64, burst int, ttl time.Duration) Provider {
	if inner == nil {
		return nil
	}
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &throttledProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		cache:   cache.New(ttl, 2*ttl),
	}
}

func (p *throttledProvider) Name() string { return p.inner.Name() }

func (p *throttledProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	key := fmt.Sprintf("%s|%d", query, limit)
	if cached, ok := p.cache.Get(key); ok {
		return cached.([]Result), nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	results, err := p.inner.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, results, cache.DefaultExpiration)
	return results, nil
}
