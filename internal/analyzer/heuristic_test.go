package analyzer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/logging"
	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guestPostPage = `<!DOCTYPE html>
<html>
<head><title>Example Blog | Write For Us</title></head>
<body>
<h1>Write for us</h1>
<p>We accept guest post submissions. Guest posts must be at least 800 words.</p>
<p>Reach out at <a href="mailto:editor@example.com?subject=Pitch">editor@example.com</a>.</p>
<form action="/submit" method="post">
  <input type="text" name="name">
  <input type="email" name="email">
  <textarea name="message"></textarea>
</form>
</body>
</html>`

func TestHeuristicAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(guestPostPage)) //nolint:errcheck
	}))
	defer srv.Close()

	a := NewHeuristicAnalyzer(5*time.Second, logging.Nop())
	require.True(t, a.Available())

	got, err := a.Analyze(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Example Blog", got.SiteName)
	assert.Equal(t, "editor@example.com", got.Email, "mailto address without query params")
	assert.Equal(t, srv.URL+"/submit", got.FormURL)
	assert.Equal(t, opportunity.ContactBoth, got.ContactMethod)
	assert.Contains(t, got.Guidelines, "800 words")
	assert.False(t, got.Offline)
}

func TestHeuristicAnalyzeFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	a := NewHeuristicAnalyzer(5*time.Second, logging.Nop())
	_, err := a.Analyze(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestAnalyzePage(t *testing.T) {
	t.Run("mailto preferred over text match", func(t *testing.T) {
		got := analyzePage(&page{
			URL:          "https://example.com",
			Title:        "Example",
			Text:         "contact other@example.com",
			MailtoEmails: []string{"editor@example.com"},
		})
		assert.Equal(t, "editor@example.com", got.Email)
	})

	t.Run("image filenames are not emails", func(t *testing.T) {
		got := analyzePage(&page{
			URL:  "https://example.com",
			Text: "see our logo@2x.png for branding",
		})
		assert.Empty(t, got.Email)
	})

	t.Run("form action preferred over contact link", func(t *testing.T) {
		got := analyzePage(&page{
			URL:          "https://example.com",
			FormActions:  []string{"https://example.com/submit"},
			ContactLinks: []string{"https://example.com/contact"},
		})
		assert.Equal(t, "https://example.com/submit", got.FormURL)
		assert.Equal(t, opportunity.ContactForm, got.ContactMethod)
	})

	t.Run("no contact method noted", func(t *testing.T) {
		got := analyzePage(&page{URL: "https://example.com", Text: "nothing here"})
		assert.Equal(t, opportunity.ContactNone, got.ContactMethod)
		assert.Equal(t, "no contact method detected on page", got.Notes)
	})
}

func TestExtractGuidelines(t *testing.T) {
	text := "Welcome to our site. Guest post submissions must be original. " +
		"We love cats. Word count should exceed 800. Unrelated closing line."

	got := extractGuidelines(text)

	assert.Contains(t, got, "Guest post submissions must be original")
	assert.Contains(t, got, "Word count should exceed 800")
	assert.NotContains(t, got, "We love cats")
	assert.LessOrEqual(t, len(got), opportunity.MaxTextLen)

	assert.Empty(t, extractGuidelines(""))
}

func TestExtractGuidelinesTruncates(t *testing.T) {
	sentence := "Our guest post guideline is that submissions include the word " +
		strings.Repeat("very ", 100) + "detailed pitches."
	text := strings.Repeat(sentence+". ", 10)

	got := extractGuidelines(text)
	assert.LessOrEqual(t, len(got), opportunity.MaxTextLen)
}

func TestSiteNameFrom(t *testing.T) {
	tests := []struct {
		name string
		p    page
		want string
	}{
		{"pipe separator", page{Title: "Example Blog | Write For Us"}, "Example Blog"},
		{"dash separator", page{Title: "Example Blog - Home"}, "Example Blog"},
		{"plain title", page{Title: "Example Blog"}, "Example Blog"},
		{"no title uses host", page{URL: "https://www.example.com/page"}, "example.com"},
		{"unparseable falls back to url", page{URL: "::::"}, "::::"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, siteNameFrom(&tt.p))
		})
	}
}
