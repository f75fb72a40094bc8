// Package search provides the pluggable external web-search capability
// used to gather references. Providers are optional: a nil provider
// degrades reference gathering to internal and manual sources only.
package search

import (
	"context"
	"strings"

	"github.com/veridex/veridex/internal/config"
	"github.com/veridex/veridex/internal/model"
)

// Result is one ranked web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider runs web searches.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Search returns up to limit ranked results for the query.
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// New creates a provider based on configuration, wrapped with rate
// limiting and response caching. An empty provider name returns
// (nil, nil): external search is then disabled.
func New(cfg config.SearchConfig) (Provider, error) {
	var p Provider
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "google":
		p, err = NewGoogleProvider(cfg.GoogleAPIKey, cfg.GoogleEngineID, cfg.Language)
	case "bing":
		p, err = NewBingProvider(cfg.BingAPIKey, cfg.Language)
	case "":
		return nil, nil
	default:
		return nil, &model.ValidationError{
			Field:  "search provider",
			Reason: cfg.Provider + " (supported: google, bing)",
		}
	}
	if err != nil {
		return nil, err
	}

	return Throttle(p, cfg.RatePerSecond, cfg.Burst, cfg.CacheTTL), nil
}
