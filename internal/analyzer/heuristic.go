package analyzer

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
	"go.uber.org/zap"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// guidelineHints mark sentences worth keeping as submission guidelines.
var guidelineHints = []string{
	"guest post", "guideline", "submission", "write for us", "contributor",
	"submit", "word count", "editorial",
}

// HeuristicAnalyzer extracts contact details with pattern matching over
// the fetched page: mailto links and email regexes, form actions,
// contact-ish links, and guideline-flavored sentences.
type HeuristicAnalyzer struct {
	timeout time.Duration
	log     *zap.Logger
}

// NewHeuristicAnalyzer creates the pattern-based analyzer.
func NewHeuristicAnalyzer(timeout time.Duration, log *zap.Logger) *HeuristicAnalyzer {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HeuristicAnalyzer{timeout: timeout, log: log}
}

// Available reports that the analyzer fetches live pages.
func (h *HeuristicAnalyzer) Available() bool {
	return true
}

// Analyze fetches the page and derives an Analysis from its content.
func (h *HeuristicAnalyzer) Analyze(_ context.Context, url string) (Analysis, error) {
	p, err := fetchPage(url, h.timeout)
	if err != nil {
		return Analysis{}, err
	}
	return analyzePage(p), nil
}

// analyzePage derives an Analysis from fetched page material.
func analyzePage(p *page) Analysis {
	email := firstEmail(p)
	formURL := firstFormURL(p)

	a := Analysis{
		SiteName:      siteNameFrom(p),
		Email:         email,
		FormURL:       formURL,
		Guidelines:    extractGuidelines(p.Text),
		ContactMethod: ContactMethodFor(email, formURL),
	}
	if a.ContactMethod == opportunity.ContactNone {
		a.Notes = "no contact method detected on page"
	}
	return a
}

// firstEmail prefers mailto links over addresses scraped from text.
func firstEmail(p *page) string {
	if len(p.MailtoEmails) > 0 {
		return p.MailtoEmails[0]
	}
	if m := emailRe.FindString(p.Text); m != "" {
		// Image filenames match the pattern (logo@2x.png); skip those.
		if !strings.HasSuffix(strings.ToLower(m), ".png") && !strings.HasSuffix(strings.ToLower(m), ".jpg") {
			return m
		}
	}
	return ""
}

// firstFormURL prefers an on-page form over a contact-ish link.
func firstFormURL(p *page) string {
	if len(p.FormActions) > 0 {
		return p.FormActions[0]
	}
	if len(p.ContactLinks) > 0 {
		return p.ContactLinks[0]
	}
	return ""
}

// extractGuidelines keeps sentences containing guideline hints, capped
// at the store's text limit.
func extractGuidelines(text string) string {
	if text == "" {
		return ""
	}

	var kept []string
	for _, sentence := range splitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, hint := range guidelineHints {
			if strings.Contains(lower, hint) {
				kept = append(kept, strings.TrimSpace(sentence))
				break
			}
		}
	}
	return opportunity.Truncate(strings.Join(kept, " "), opportunity.MaxTextLen)
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
}

var _ Analyzer = (*HeuristicAnalyzer)(nil)
