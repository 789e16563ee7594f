package analyzer

import (
	"context"
	"testing"

	"github.com/fyrsmithlabs/linkscout/internal/config"
	"github.com/fyrsmithlabs/linkscout/internal/logging"
	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactMethodFor(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		formURL string
		want    opportunity.ContactMethod
	}{
		{"both", "a@b.co", "https://b.co/contact", opportunity.ContactBoth},
		{"email only", "a@b.co", "", opportunity.ContactEmail},
		{"form only", "", "https://b.co/contact", opportunity.ContactForm},
		{"neither", "", "", opportunity.ContactNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContactMethodFor(tt.email, tt.formURL))
		})
	}
}

func TestNewSelectsProvider(t *testing.T) {
	log := logging.Nop()

	a := New(config.AnalyzerConfig{Provider: "offline"}, log)
	assert.IsType(t, &OfflineAnalyzer{}, a)

	a = New(config.AnalyzerConfig{Provider: "heuristic"}, log)
	assert.IsType(t, &HeuristicAnalyzer{}, a)

	// A model provider without an API key downgrades to heuristics.
	a = New(config.AnalyzerConfig{Provider: "openai"}, log)
	assert.IsType(t, &HeuristicAnalyzer{}, a)
}

func TestParseAnalysisJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Analysis
		wantErr bool
	}{
		{
			name: "bare json",
			raw:  `{"site_name":"Example","email":"e@x.co","submission_form_url":"","guidelines":"800 words min"}`,
			want: Analysis{SiteName: "Example", Email: "e@x.co", Guidelines: "800 words min"},
		},
		{
			name: "fenced with prose",
			raw:  "Here is the analysis:\n```json\n{\"site_name\":\"Example\"}\n```\nLet me know!",
			want: Analysis{SiteName: "Example"},
		},
		{
			name:    "no json object",
			raw:     "I could not analyze this page.",
			wantErr: true,
		},
		{
			name:    "malformed json",
			raw:     `{"site_name": }`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnalysisJSON(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOfflineAnalyzer(t *testing.T) {
	a := NewOfflineAnalyzer()
	assert.False(t, a.Available())

	got, err := a.Analyze(context.Background(), "https://www.web3daily.com/guidelines")
	require.NoError(t, err)

	assert.Equal(t, "web3daily.com", got.SiteName)
	assert.Equal(t, "editor@web3daily.com", got.Email)
	assert.Equal(t, opportunity.ContactEmail, got.ContactMethod)
	assert.True(t, got.Offline, "offline results must be flagged")
	assert.NotEmpty(t, got.Notes)
}
