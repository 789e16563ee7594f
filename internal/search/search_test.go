package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fyrsmithlabs/linkscout/internal/config"
	"github.com/fyrsmithlabs/linkscout/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider returns canned results per query and can fail selected
// queries.
type stubProvider struct {
	results map[string][]Result
	failOn  map[string]bool
	queries []string
}

func (s *stubProvider) Search(_ context.Context, query string) ([]Result, error) {
	s.queries = append(s.queries, query)
	if s.failOn[query] {
		return nil, errors.New("provider unavailable")
	}
	return s.results[query], nil
}

func (s *stubProvider) Available() bool { return false }

func TestSearchGuestPostsFanOut(t *testing.T) {
	topic := "web3 marketing"
	provider := &stubProvider{results: map[string][]Result{}}
	for _, variant := range guestPostVariants {
		query := fmt.Sprintf(variant, topic)
		provider.results[query] = []Result{{URL: "https://shared.example.com", Title: "Shared"}}
	}
	firstQuery := fmt.Sprintf(guestPostVariants[0], topic)
	provider.results[firstQuery] = append(provider.results[firstQuery],
		Result{URL: "https://only-first.example.com", Title: "First Only"})

	svc := NewServiceWith(provider, 0, logging.Nop())
	results, err := svc.SearchGuestPosts(context.Background(), topic)
	require.NoError(t, err)

	require.Len(t, provider.queries, len(guestPostVariants), "every variant must execute")
	for _, q := range provider.queries {
		assert.Contains(t, q, `"web3 marketing"`)
	}

	// Dedup by URL, first-seen order.
	require.Len(t, results, 2)
	assert.Equal(t, "https://shared.example.com", results[0].URL)
	assert.Equal(t, "https://only-first.example.com", results[1].URL)
}

func TestSearchGuestPostsVariantFailureIsIsolated(t *testing.T) {
	topic := "defi"
	failQuery := fmt.Sprintf(guestPostVariants[1], topic)
	okQuery := fmt.Sprintf(guestPostVariants[0], topic)

	provider := &stubProvider{
		results: map[string][]Result{
			okQuery: {{URL: "https://ok.example.com"}},
		},
		failOn: map[string]bool{failQuery: true},
	}

	svc := NewServiceWith(provider, 0, logging.Nop())
	results, err := svc.SearchGuestPosts(context.Background(), topic)

	require.NoError(t, err, "a failed variant must not fail the search")
	require.Len(t, provider.queries, len(guestPostVariants), "remaining variants still run")
	require.Len(t, results, 1)
	assert.Equal(t, "https://ok.example.com", results[0].URL)
}

func TestSearchGuestPostsAllVariantsFail(t *testing.T) {
	provider := &stubProvider{failOn: map[string]bool{}}
	for _, variant := range guestPostVariants {
		provider.failOn[fmt.Sprintf(variant, "x")] = true
	}

	svc := NewServiceWith(provider, 0, logging.Nop())
	results, err := svc.SearchGuestPosts(context.Background(), "x")

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDedupe(t *testing.T) {
	in := []Result{
		{URL: "https://a.example.com", Title: "first a"},
		{URL: "https://b.example.com"},
		{URL: "https://a.example.com", Title: "second a"},
		{URL: ""},
	}

	out := dedupe(in)

	require.Len(t, out, 2)
	assert.Equal(t, "first a", out[0].Title, "first-seen entry wins")
	assert.Equal(t, "https://b.example.com", out[1].URL)
}

func TestOfflineProvider(t *testing.T) {
	p := NewOfflineProvider(2)

	assert.False(t, p.Available())

	results, err := p.Search(context.Background(), `"crypto" "write for us"`)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.LessOrEqual(t, len(results), 2)
	for _, r := range results {
		assert.True(t, strings.HasPrefix(r.URL, "https://"), "fixture URLs are absolute")
	}

	// Deterministic: the same query yields the same results.
	again, err := p.Search(context.Background(), `"crypto" "write for us"`)
	require.NoError(t, err)
	assert.Equal(t, results, again)
}

func TestNewServiceDowngradesWithoutKey(t *testing.T) {
	svc := NewService(config.SearchConfig{Provider: "serper"}, logging.Nop())
	assert.False(t, svc.Available(), "missing api key must select the offline provider")

	svc = NewService(config.SearchConfig{Provider: "offline"}, logging.Nop())
	assert.False(t, svc.Available())
}
