package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBingBaseURL = "https://api.bing.microsoft.com/v7.0/search"

// BingProvider queries the Bing Web Search API.
type BingProvider struct {
	apiKey   string
	language string
	baseURL  string
	client   *http.Client
}

// BingOption customizes the provider.
type BingOption func(*BingProvider)

// WithBingBaseURL overrides the API endpoint.
func WithBingBaseURL(u string) BingOption {
	return func(p *BingProvider) { p.baseURL = u }
}

// WithBingHTTPClient overrides the HTTP client.
func WithBingHTTPClient(c *http.Client) BingOption {
	return func(p *BingProvider) { p.client = c }
}

// NewBingProvider creates a Bing Web Search provider.
func NewBingProvider(apiKey, language string, opts ...BingOption) (*BingProvider, error) {
	if apiKey == "" {
		return nil, eris.New("bing search: api key is required")
	}

	p := &BingProvider{
		apiKey:   apiKey,
		language: language,
		baseURL:  defaultBingBaseURL,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name implements Provider.
func (p *BingProvider) Name() string { return "bing" }

type bingResponse struct {
	WebPages struct {
		Value []struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}

// Search implements Provider.
func (p *BingProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(limit))
	if p.language != "" {
		params.Set("setLang", p.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "bing search: build request")
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "bing search: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.New(fmt.Sprintf("bing search: unexpected status %d", resp.StatusCode))
	}

	var decoded bingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, eris.Wrap(err, "bing search: decode response")
	}

	results := make([]Result, 0, len(decoded.WebPages.Value))
	for _, item := range decoded.WebPages.Value {
		if len(results) >= limit {
			break
		}
		results = append(results, Result{
			Title:   item.Name,
			URL:     item.URL,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
