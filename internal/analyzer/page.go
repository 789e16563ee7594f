package analyzer

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const fetchUserAgent = "Mozilla/5.0 (compatible; linkscout/1.0)"

// page holds the raw material extracted from one fetched site.
type page struct {
	URL          string
	Title        string
	Text         string
	MailtoEmails []string
	FormActions  []string
	ContactLinks []string
}

// contactLinkHints flag anchors that likely lead to a submission form.
var contactLinkHints = []string{
	"contact", "write-for-us", "write_for_us", "submit", "contribute", "guest-post",
}

// fetchPage downloads and dissects a site with colly. The collector is
// synchronous and limited to the single page; link targets are
// collected, not followed.
func fetchPage(rawURL string, timeout time.Duration) (*page, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	c := colly.NewCollector(
		colly.UserAgent(fetchUserAgent),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(timeout)

	p := &page{URL: rawURL}

	c.OnHTML("title", func(e *colly.HTMLElement) {
		if p.Title == "" {
			p.Title = strings.TrimSpace(e.Text)
		}
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if addr, ok := strings.CutPrefix(href, "mailto:"); ok {
			addr = strings.SplitN(addr, "?", 2)[0]
			if addr != "" {
				p.MailtoEmails = append(p.MailtoEmails, addr)
			}
			return
		}
		target := strings.ToLower(href + " " + e.Text)
		for _, hint := range contactLinkHints {
			if strings.Contains(target, hint) {
				p.ContactLinks = append(p.ContactLinks, e.Request.AbsoluteURL(href))
				return
			}
		}
	})

	c.OnHTML("form", func(e *colly.HTMLElement) {
		action := e.Request.AbsoluteURL(e.Attr("action"))
		if action == "" {
			action = e.Request.URL.String()
		}
		p.FormActions = append(p.FormActions, action)
	})

	c.OnHTML("body", func(e *colly.HTMLElement) {
		p.Text = collapseWhitespace(e.Text)
	})

	var fetchErr error
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("fetch failed for %s: %w", rawURL, err)
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("fetch failed for %s: %w", rawURL, fetchErr)
	}

	return p, nil
}

// collapseWhitespace flattens runs of whitespace into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// siteNameFrom derives a display name from the page title, falling
// back to the URL host.
func siteNameFrom(p *page) string {
	title := p.Title
	for _, sep := range []string{" | ", " – ", " - "} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
		}
	}
	title = strings.TrimSpace(title)
	if title != "" {
		return title
	}
	if u, err := url.Parse(p.URL); err == nil && u.Host != "" {
		return strings.TrimPrefix(u.Host, "www.")
	}
	return p.URL
}
