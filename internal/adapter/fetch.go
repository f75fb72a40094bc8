package adapter

import (
	"context"
	"io"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/veridex/veridex/internal/config"
	"github.com/veridex/veridex/internal/webutil"
)

// pageFetcher is the HTTP helper shared by the scraping adapters. It
// honors robots.txt and the per-host rate limit before every request.
type pageFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	robots    *webutil.RobotsChecker
	limiter   *webutil.HostLimiter
}

func newPageFetcher(cfg config.HTTPConfig, robots *webutil.RobotsChecker, limiter *webutil.HostLimiter) *pageFetcher {
	return &pageFetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		robots:    robots,
		limiter:   limiter,
	}
}

func (f *pageFetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	if f.robots != nil && !f.robots.Allowed(ctx, rawURL) {
		return nil, eris.Errorf("blocked by robots.txt: %s", rawURL)
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, eris.Wrap(err, "rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("unexpected status %d fetching %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, eris.Wrap(err, "read body")
	}
	return body, nil
}
