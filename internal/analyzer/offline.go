package analyzer

import (
	"context"
	"net/url"
	"strings"

	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
)

// OfflineAnalyzer synthesizes placeholder analyses without touching the
// network, so the pipeline stays runnable and testable when neither a
// model nor outbound HTTP is available.
type OfflineAnalyzer struct{}

// NewOfflineAnalyzer creates the degraded-mode analyzer.
func NewOfflineAnalyzer() *OfflineAnalyzer {
	return &OfflineAnalyzer{}
}

// Available always reports false: results are synthesized.
func (a *OfflineAnalyzer) Available() bool {
	return false
}

// Analyze fabricates a plausible editor contact from the URL host. The
// result is flagged as an offline placeholder in its notes.
func (a *OfflineAnalyzer) Analyze(_ context.Context, rawURL string) (Analysis, error) {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = strings.TrimPrefix(u.Host, "www.")
	}

	return Analysis{
		SiteName:      host,
		Email:         "editor@" + host,
		Guidelines:    "Guest posts should be original, relevant to the site's audience, and at least 800 words.",
		ContactMethod: opportunity.ContactEmail,
		Notes:         "offline placeholder analysis, not authoritative",
		Offline:       true,
	}, nil
}

var _ Analyzer = (*OfflineAnalyzer)(nil)
