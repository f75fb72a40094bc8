package search

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

func TestGoogleProvider_Search(t *testing.T) {
	var gotQuery, gotKey, gotCX string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		gotCX = r.URL.Query().Get("cx")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"title":"Budget report","link":"https://example.com/a","snippet":"The budget grew."},
			{"title":"Analysis","link":"https://example.com/b","snippet":"Independent analysis."}
		]}`))
	}))
	defer srv.Close()

	p, err := NewGoogleProvider("key-1", "cx-1", "hu", WithGoogleBaseURL(srv.URL))
	require.NoError(t, err)

	results, err := p.Search(context.Background(), "budget growth", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "budget growth", gotQuery)
	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, "cx-1", gotCX)
	assert.Equal(t, "Budget report", results[0].Title)
	assert.Equal(t, "https://example.com/a", results[0].URL)
}

func TestGoogleProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p, err := NewGoogleProvider("key-1", "cx-1", "", WithGoogleBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = p.Search(context.Background(), "anything", 5)
	require.Error(t, err)
}

func TestBingProvider_Search(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("Ocp-Apim-Subscription-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"webPages":{"value":[
			{"name":"Statistics portal","url":"https://example.com/stats","snippet":"Latest figures."}
		]}}`))
	}))
	defer srv.Close()

	p, err := NewBingProvider("bing-key", "hu", WithBingBaseURL(srv.URL))
	require.NoError(t, err)

	results, err := p.Search(context.Background(), "population figures", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "bing-key", gotHeader)
	assert.Equal(t, "https://example.com/stats", results[0].URL)
}

func TestThrottle_CachesResponses(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"title":"Hit","link":"https://example.com","snippet":"s"}]}`))
	}))
	defer srv.Close()

	inner, err := NewGoogleProvider("key", "cx", "", WithGoogleBaseURL(srv.URL))
	require.NoError(t, err)
	p := Throttle(inner, 100, 10, time.Minute)

	for i := 0; i < 3; i++ {
		results, err := p.Search(context.Background(), "same query", 5)
		require.NoError(t, err)
		require.Len(t, results, 1)
	}
	assert.Equal(t, 1, calls, "repeated identical queries are served from cache")
}

func TestNew(t *testing.T) {
	p, err := New(config.SearchConfig{Provider: ""})
	require.NoError(t, err)
	assert.Nil(t, p, "empty provider disables external search")

	_, err = New(config.SearchConfig{Provider: "google"})
	require.Error(t, err, "google requires credentials")

	p, err = New(config.SearchConfig{
		Provider:       "google",
		GoogleAPIKey:   "k",
		GoogleEngineID: "cx",
	})
	require.NoError(t, err)
	assert.Equal(t, "google", p.Name())

	p, err = New(config.SearchConfig{Provider: "bing", BingAPIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "bing", p.Name())

	_, err = New(config.SearchConfig{Provider: "duckduckgo"})
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
}
