package webutil

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits outbound requests per remote host so that
// adapters collecting many items stay polite.
type HostLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	perHost  rate.Limit
	burst    int
}

// NewHostLimiter allows requestsPerSecond per host with the given burst.
func NewHostLimiter(requestsPerSecond float64, burst int) *HostLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until a request to rawURL's host is allowed.
func (l *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	l.mu.Lock()
	limiter, ok := l.limiters[parsed.Host]
	if !ok {
		limiter = rate.NewLimiter(l.perHost, l.burst)
		l.limiters[parsed.Host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
