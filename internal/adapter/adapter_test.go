package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridex/veridex/internal/config"
	"github.com/veridex/veridex/internal/model"
)

func testHTTPConfig() config.HTTPConfig {
	return config.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "veridex-test/1.0",
		MaxBodyBytes: 1 << 20,
		RatePerHost:  100,
		Burst:        10,
	}
}

func mustTestSource(t *testing.T, sourceType, identifier string, cfg model.JSONMap) *model.Source {
	t.Helper()
	src, err := model.NewSource(sourceType, identifier, "group-1", cfg)
	require.NoError(t, err)
	return src
}

func TestRegistry_ForUnknownType(t *testing.T) {
	r := NewRegistry()
	_, err := r.For(model.SourceTypeFeed)
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
}

func TestFeedAdapter_Fetch(t *testing.T) {
	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>Economy grows</title>
      <guid>item-1</guid>
      <link>https://example.com/1</link>
      <description>The economy grew by 5% in 2023.</description>
      <pubDate>Mon, 02 Jan 2023 15:04:05 GMT</pubDate>
    </item>
    <item>
      <title>Second story</title>
      <guid>item-2</guid>
      <link>https://example.com/2</link>
      <description>More reporting on the same topic.</description>
    </item>
  </channel>
</rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rss))
	}))
	defer srv.Close()

	a := NewFeedAdapter(testHTTPConfig())
	src := mustTestSource(t, "feed", srv.URL, nil)

	items, err := a.Fetch(context.Background(), src, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "item-1", items[0].ExternalID)
	assert.Contains(t, items[0].Content, "Economy grows")
	assert.Contains(t, items[0].Content, "5% in 2023")
	assert.Equal(t, 2023, items[0].OccurredAt.Year())

	// Limit honored.
	items, err = a.Fetch(context.Background(), src, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFeedAdapter_FetchFailureIsNonFatal(t *testing.T) {
	a := NewFeedAdapter(testHTTPConfig())
	src := mustTestSource(t, "feed", "http://127.0.0.1:1/does-not-exist", nil)

	items, err := a.Fetch(context.Background(), src, 10)
	assert.Empty(t, items)
	require.Error(t, err)

	var fe *FetchError
	assert.ErrorAs(t, err, &fe)
}

func TestGazetteAdapter_Fetch(t *testing.T) {
	page := `<html><body>
	  <table>
	    <tr><td><a href="/pdf/issue-142.pdf">Official Gazette 142 (2023-09-01)</a></td></tr>
	    <tr><td><a href="/pdf/issue-143.pdf">Official Gazette 143 (2023. 9. 8.)</a></td></tr>
	    <tr><td><a href="/pdf/issue-142.pdf">Official Gazette 142 (2023-09-01)</a></td></tr>
	    <tr><td><a href="/about">About</a></td></tr>
	  </table>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	a := NewGazetteAdapter(testHTTPConfig(), nil, nil)
	src := mustTestSource(t, "official_gazette", srv.URL, nil)

	items, err := a.Fetch(context.Background(), src, 10)
	require.NoError(t, err)
	require.Len(t, items, 2, "duplicate links collapse, non-matching links skipped")

	assert.Equal(t, srv.URL+"/pdf/issue-142.pdf", items[0].ExternalID)
	assert.Equal(t, "Official Gazette 142 (2023-09-01)", items[0].Content)
	assert.Equal(t, time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), items[0].OccurredAt)
	assert.Equal(t, time.Date(2023, 9, 8, 0, 0, 0, 0, time.UTC), items[1].OccurredAt)
}

func TestSocialProfileAdapter_Fetch(t *testing.T) {
	page := `<html><body>
	  <article data-post-id="p-100">
	    <time datetime="2023-05-01T10:00:00Z">May 1</time>
	    <p>We opened three new community centers across the region this spring.</p>
	  </article>
	  <div class="post"><p>Short.</p></div>
	  <div class="status-update"><p>Another long enough announcement about upcoming public events.</p></div>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	a := NewSocialProfileAdapter(testHTTPConfig(), nil, nil)
	src := mustTestSource(t, "social_profile", srv.URL+"/profile", nil)

	items, err := a.Fetch(context.Background(), src, 10)
	require.NoError(t, err)
	require.Len(t, items, 2, "short blocks are discarded")

	assert.Equal(t, "p-100", items[0].ExternalID)
	assert.Equal(t, 2023, items[0].OccurredAt.Year())
	assert.NotEmpty(t, items[1].ExternalID, "blocks without ids fall back to a content hash")
}

func TestDatasetAdapter_Fetch(t *testing.T) {
	payload := `{
	  "label": "Population on 1 January",
	  "updated": "2023-06-15",
	  "value": {"0": 9730000, "1": 9689000},
	  "dimension": {
	    "time": {"category": {"index": {"2021": 0, "2022": 1}}}
	  }
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewDatasetAdapter(testHTTPConfig(), nil)
	src := mustTestSource(t, "statistical_dataset", "tps00001", model.JSONMap{
		"api_url":      srv.URL,
		"source_label": "eurostat",
	})

	items, err := a.Fetch(context.Background(), src, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "tps00001:2021", items[0].ExternalID)
	assert.Contains(t, items[0].Content, "Population on 1 January")
	assert.Contains(t, items[0].Content, "2021")
	assert.Equal(t, "eurostat", items[0].Extra[ExtraDatasetSource])
	assert.Equal(t, float64(9730000), items[0].Extra[ExtraValue])
	assert.Equal(t, "tps00001:2022", items[1].ExternalID)
}
