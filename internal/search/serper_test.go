package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestSerperClient(baseURL string, maxResults int) *serperClient {
	c := newSerperClient(config.SearchConfig{
		APIKey:     config.Secret("test-key"),
		BaseURL:    baseURL,
		MaxResults: maxResults,
		Timeout:    5 * time.Second,
	})
	c.maxRetries = 1
	c.baseBackoff = time.Millisecond
	return c
}

func TestSerperSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Write([]byte(`{"organic":[` + //nolint:errcheck
			`{"title":"Write For Us","link":"https://a.example.com","snippet":"submit"},` +
			`{"title":"Contribute","link":"https://b.example.com","snippet":"pitch"},` +
			`{"title":"Extra","link":"https://c.example.com","snippet":"x"}]}`))
	}))
	defer srv.Close()

	c := newTestSerperClient(srv.URL, 2)
	results, err := c.Search(context.Background(), `"web3" "write for us"`)
	require.NoError(t, err)

	require.Len(t, results, 2, "results are capped at max_results")
	assert.Equal(t, "https://a.example.com", results[0].URL)
	assert.Equal(t, "Write For Us", results[0].Title)
	assert.Equal(t, "submit", results[0].Description)
}

func TestSerperSearchRetriesTransientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"organic":[{"title":"T","link":"https://a.example.com"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := newTestSerperClient(srv.URL, 5)
	results, err := c.Search(context.Background(), "q")
	require.NoError(t, err)

	assert.Equal(t, 2, calls, "a 429 is retried")
	require.Len(t, results, 1)
}

func TestSerperSearchClientErrorIsFatal(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestSerperClient(srv.URL, 5)
	_, err := c.Search(context.Background(), "q")

	require.Error(t, err)
	assert.Equal(t, 1, calls, "a 401 is not retried")
}

func TestSerperSearchRateLimitsEveryAttempt(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"organic":[{"title":"T","link":"https://a.example.com"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := newTestSerperClient(srv.URL, 5)
	// Burst of one: the retry cannot reuse the first attempt's token.
	c.limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 1)

	start := time.Now()
	_, err := c.Search(context.Background(), "q")
	require.NoError(t, err)

	require.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond,
		"the retry must wait for its own rate limiter token")
}

func TestSerperSearchMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json")) //nolint:errcheck
	}))
	defer srv.Close()

	c := newTestSerperClient(srv.URL, 5)
	results, err := c.Search(context.Background(), "q")

	require.NoError(t, err, "a malformed payload degrades to empty results")
	assert.Empty(t, results)
}
