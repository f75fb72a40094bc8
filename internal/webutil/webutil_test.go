package webutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobotsChecker_DisallowedPath(t *testing.T) {
	robotsFetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsFetches++
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	checker := NewRobotsChecker("veridex-test/1.0", 5*time.Second)
	ctx := context.Background()

	assert.True(t, checker.Allowed(ctx, srv.URL+"/public/page"))
	assert.False(t, checker.Allowed(ctx, srv.URL+"/private/page"))
	assert.Equal(t, 1, robotsFetches, "robots.txt is cached per host")
}

func TestRobotsChecker_FailuresDefaultToAllowed(t *testing.T) {
	checker := NewRobotsChecker("veridex-test/1.0", time.Second)
	assert.True(t, checker.Allowed(context.Background(), "http://127.0.0.1:1/page"))
}

func TestHostLimiter_Wait(t *testing.T) {
	l := NewHostLimiter(100, 1)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx, "https://example.com/a"))
	require.NoError(t, l.Wait(ctx, "https://other.example.com/b"))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, l.Wait(canceled, "https://example.com/c"))
}
