// Package search discovers guest-post candidate sites. It wraps a
// pluggable web-search provider with the guest-post keyword fan-out and
// URL deduplication used by the discovery stage.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/config"
	"go.uber.org/zap"
)

// Result is one search hit.
type Result struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Provider executes a single search query.
type Provider interface {
	// Search returns up to the provider's configured number of hits.
	Search(ctx context.Context, query string) ([]Result, error)

	// Available reports whether the provider talks to a live backend.
	// Offline providers return false and serve synthesized fixtures.
	Available() bool
}

// guestPostVariants are the keyword expansions applied per topic.
// Order matters: dedup keeps the first-seen URL.
var guestPostVariants = []string{
	`%q "write for us"`,
	`%q "contribute"`,
	`%q "guest post guidelines"`,
	`%q "submit article"`,
}

// Service runs guest-post discovery on top of a Provider.
type Service struct {
	provider Provider
	delay    time.Duration
	log      *zap.Logger
}

// NewService builds the search service from configuration, selecting
// the provider backend. A serper provider without an API key downgrades
// to the offline provider instead of failing.
func NewService(cfg config.SearchConfig, log *zap.Logger) *Service {
	var provider Provider
	switch cfg.Provider {
	case "offline":
		provider = NewOfflineProvider(cfg.MaxResults)
	default:
		if cfg.APIKey.Value() == "" {
			log.Warn("search api key missing, using offline provider",
				zap.String("provider", cfg.Provider))
			provider = NewOfflineProvider(cfg.MaxResults)
		} else {
			provider = newSerperClient(cfg)
		}
	}
	return &Service{
		provider: provider,
		delay:    cfg.Delay,
		log:      log,
	}
}

// NewServiceWith wires an explicit provider, used by tests and by the
// orchestrator wiring when a caller already has one.
func NewServiceWith(provider Provider, delay time.Duration, log *zap.Logger) *Service {
	return &Service{provider: provider, delay: delay, log: log}
}

// Available reports whether the underlying provider is live.
func (s *Service) Available() bool {
	return s.provider.Available()
}

// Search proxies a single query to the provider.
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	return s.provider.Search(ctx, query)
}

// SearchGuestPosts fans a topic out over the guest-post keyword
// variants, running each independently. A failed variant is logged and
// skipped; the union is deduplicated by URL preserving first-seen
// order. All variants failing yields an empty slice, not an error.
func (s *Service) SearchGuestPosts(ctx context.Context, topic string) ([]Result, error) {
	var all []Result
	for i, variant := range guestPostVariants {
		query := fmt.Sprintf(variant, topic)

		results, err := s.provider.Search(ctx, query)
		if err != nil {
			s.log.Warn("search variant failed",
				zap.String("query", query), zap.Error(err))
		} else {
			all = append(all, results...)
		}

		// Pause between variants against a live backend only.
		if s.provider.Available() && i < len(guestPostVariants)-1 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return dedupe(all), ctx.Err()
			}
		}
	}

	unique := dedupe(all)
	s.log.Info("guest post search complete",
		zap.String("topic", topic), zap.Int("unique_results", len(unique)))
	return unique, nil
}

// dedupe removes results sharing a URL, keeping first-seen order.
// Results without a URL are dropped.
func dedupe(results []Result) []Result {
	seen := make(map[string]struct{}, len(results))
	unique := make([]Result, 0, len(results))
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if _, ok := seen[r.URL]; ok {
			continue
		}
		seen[r.URL] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}
