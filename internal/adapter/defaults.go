package adapter

import (
	"github.com/veridex/veridex/internal/config"
	"github.com/veridex/veridex/internal/webutil"
)

// DefaultRegistry wires the four built-in adapters with shared
// robots.txt checking and per-host rate limiting.
func DefaultRegistry(cfg *config.Config) *Registry {
	robots := webutil.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	limiter := webutil.NewHostLimiter(cfg.HTTP.RatePerHost, cfg.HTTP.Burst)

	r := NewRegistry()
	r.Register(NewSocialProfileAdapter(cfg.HTTP, robots, limiter))
	r.Register(NewFeedAdapter(cfg.HTTP))
	r.Register(NewGazetteAdapter(cfg.HTTP, robots, limiter))
	r.Register(NewDatasetAdapter(cfg.HTTP, limiter))
	return r
}
