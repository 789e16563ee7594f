package opportunity

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	opp := New("https://example.com/write-for-us", "Example Blog")

	assert.NotEmpty(t, opp.ID)
	assert.Equal(t, "https://example.com/write-for-us", opp.URL)
	assert.Equal(t, "Example Blog", opp.SiteName)
	assert.Equal(t, StatusPending, opp.Status)
	assert.False(t, opp.Date.IsZero())

	other := New("https://example.com/write-for-us", "Example Blog")
	assert.NotEqual(t, opp.ID, other.ID)
}

func TestContactable(t *testing.T) {
	tests := []struct {
		name string
		opp  Opportunity
		want bool
	}{
		{"email only", Opportunity{Email: "editor@example.com"}, true},
		{"form only", Opportunity{FormURL: "https://example.com/contact"}, true},
		{"both", Opportunity{Email: "a@b.c", FormURL: "https://b.c/f"}, true},
		{"neither", Opportunity{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opp.Contactable())
		})
	}
}

func TestMerge(t *testing.T) {
	sentAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("zero fields do not erase", func(t *testing.T) {
		base := Opportunity{
			URL:         "https://example.com",
			SiteName:    "Example",
			Email:       "editor@example.com",
			Status:      StatusPending,
			EmailStatus: EmailStatusNone,
		}
		update := Opportunity{
			URL:         "https://example.com",
			EmailStatus: EmailStatusSuccess,
			EmailSentAt: &sentAt,
		}

		got := Merge(base, update)

		assert.Equal(t, StatusPending, got.Status, "status must survive a partial update")
		assert.Equal(t, "Example", got.SiteName)
		assert.Equal(t, "editor@example.com", got.Email)
		assert.Equal(t, EmailStatusSuccess, got.EmailStatus)
		require.NotNil(t, got.EmailSentAt)
		assert.Equal(t, sentAt, *got.EmailSentAt)
	})

	t.Run("non-zero fields win", func(t *testing.T) {
		base := Opportunity{URL: "https://example.com", Status: StatusPending, Notes: "old"}
		update := Opportunity{URL: "https://example.com", Status: StatusContacted, Notes: "new"}

		got := Merge(base, update)

		assert.Equal(t, StatusContacted, got.Status)
		assert.Equal(t, "new", got.Notes)
	})

	t.Run("merge truncates long text", func(t *testing.T) {
		base := Opportunity{URL: "https://example.com"}
		update := Opportunity{URL: "https://example.com", Guidelines: strings.Repeat("g", MaxTextLen+50)}

		got := Merge(base, update)

		assert.Len(t, got.Guidelines, MaxTextLen)
	})

	t.Run("merge keeps full character allowance for multibyte text", func(t *testing.T) {
		base := Opportunity{URL: "https://example.com"}
		update := Opportunity{URL: "https://example.com", Guidelines: strings.Repeat("é", MaxTextLen+50)}

		got := Merge(base, update)

		assert.Equal(t, MaxTextLen, utf8.RuneCountInString(got.Guidelines))
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exactly at limit", "hello", 5, "hello"},
		{"over limit", "hello world", 5, "hello"},
		{"empty", "", 5, ""},
		{"multibyte counts characters not bytes", "héllo", 2, "hé"},
		{"multibyte only", strings.Repeat("é", 10), 4, strings.Repeat("é", 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.n))
		})
	}
}

func TestClamp(t *testing.T) {
	opp := Opportunity{
		Guidelines: strings.Repeat("a", MaxTextLen+1),
		Notes:      strings.Repeat("b", MaxTextLen*2),
	}

	got := Clamp(opp)

	assert.Len(t, got.Guidelines, MaxTextLen)
	assert.Len(t, got.Notes, MaxTextLen)
}
