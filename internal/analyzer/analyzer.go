// Package analyzer inspects candidate sites for guest-post submission
// contact methods. It supports LLM-based extraction (OpenAI or
// Anthropic via langchaingo) over fetched page content, a heuristic
// pattern-based extractor, and an offline placeholder analyzer.
package analyzer

import (
	"context"

	"github.com/fyrsmithlabs/linkscout/internal/config"
	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
	"go.uber.org/zap"
)

// Analysis is what the analyzer learned about one site.
type Analysis struct {
	SiteName      string                    `json:"site_name"`
	Email         string                    `json:"email,omitempty"`
	FormURL       string                    `json:"submission_form_url,omitempty"`
	Guidelines    string                    `json:"guidelines"`
	ContactMethod opportunity.ContactMethod `json:"contact_method"`
	Notes         string                    `json:"notes,omitempty"`
	// Offline marks a synthesized placeholder result from a
	// degraded-mode analyzer.
	Offline bool `json:"offline,omitempty"`
}

// Analyzer extracts submission details from a site URL.
//
// Implementations degrade internally where they can (an LLM fault
// falls back to heuristics with a diagnostic note); an error is
// returned only when nothing at all could be learned about the site,
// and the caller records it without aborting the batch.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (Analysis, error)

	// Available reports whether the analyzer is backed by a live
	// model/fetch; offline analyzers return false.
	Available() bool
}

// New selects an analyzer from configuration. An LLM provider without
// an API key downgrades to the heuristic analyzer instead of failing.
func New(cfg config.AnalyzerConfig, log *zap.Logger) Analyzer {
	switch cfg.Provider {
	case "offline":
		return NewOfflineAnalyzer()
	case "heuristic":
		return NewHeuristicAnalyzer(cfg.Timeout, log)
	default:
		if cfg.APIKey.Value() == "" {
			log.Warn("analyzer api key missing, using heuristic analyzer",
				zap.String("provider", cfg.Provider))
			return NewHeuristicAnalyzer(cfg.Timeout, log)
		}
		a, err := newLLMAnalyzer(cfg, log)
		if err != nil {
			log.Warn("llm analyzer unavailable, using heuristic analyzer",
				zap.Error(err))
			return NewHeuristicAnalyzer(cfg.Timeout, log)
		}
		return a
	}
}

// ContactMethodFor derives the contact method from what was found.
func ContactMethodFor(email, formURL string) opportunity.ContactMethod {
	switch {
	case email != "" && formURL != "":
		return opportunity.ContactBoth
	case email != "":
		return opportunity.ContactEmail
	case formURL != "":
		return opportunity.ContactForm
	default:
		return opportunity.ContactNone
	}
}
