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

const defaultGoogleBaseURL = "https://www.googleapis.com/customsearch/v1"

// GoogleProvider queries the Google Custom Search JSON API.
type GoogleProvider struct {
	apiKey   string
	engineID string
	language string
	baseURL  string
	client   *http.Client
}

// GoogleOption customizes the provider.
type GoogleOption func(*GoogleProvider)

// WithGoogleBaseURL overrides the API endpoint.
func WithGoogleBaseURL(u string) GoogleOption {
	return func(p *GoogleProvider) { p.baseURL = u }
}

// WithGoogleHTTPClient overrides the HTTP client.
func WithGoogleHTTPClient(c *http.Client) GoogleOption {
	return func(p *GoogleProvider) { p.client = c }
}

// NewGoogleProvider creates a Google Custom Search provider.
func NewGoogleProvider(apiKey, engineID, language string, opts ...GoogleOption) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, eris.New("google search: api key is required")
	}
	if engineID == "" {
		return nil, eris.New("google search: engine id is required")
	}

	p := &GoogleProvider{
		apiKey:   apiKey,
		engineID: engineID,
		language: language,
		baseURL:  defaultGoogleBaseURL,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name implements Provider.
func (p *GoogleProvider) Name() string { return "google" }

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search implements Provider.
func (p *GoogleProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 || limit > 10 {
		limit = 10
	}

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("cx", p.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))
	if p.language != "" {
		params.Set("lr", "lang_"+p.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "google search: build request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "google search: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.New(fmt.Sprintf("google search: unexpected status %d", resp.StatusCode))
	}

	var decoded googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, eris.Wrap(err, "google search: decode response")
	}

	results := make([]Result, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		if len(results) >= limit {
			break
		}
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
