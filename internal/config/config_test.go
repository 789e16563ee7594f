package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)

	assert.Equal(t, 5*time.Second, cfg.Pipeline.TopicCooldown)
	assert.Equal(t, 7, cfg.Pipeline.LookbackDays)

	assert.Equal(t, "serper", cfg.Search.Provider)
	assert.Equal(t, "https://google.serper.dev", cfg.Search.BaseURL)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.Equal(t, 2*time.Second, cfg.Search.Delay)

	assert.Equal(t, "openai", cfg.Analyzer.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Analyzer.Model)

	assert.Equal(t, "smtp", cfg.Contact.Provider)
	assert.Equal(t, 465, cfg.Contact.SMTPPort)
	assert.True(t, cfg.Contact.SMTPUseSSL)
	assert.Equal(t, 993, cfg.Contact.IMAPPort)
	assert.True(t, cfg.Contact.IMAPUseSSL)

	assert.Equal(t, "sqlite", cfg.Store.Provider)
	assert.Equal(t, "linkscout.db", cfg.Store.SQLitePath)
	assert.Equal(t, "back_link", cfg.Store.SheetName)
}

func TestLoadFromFile(t *testing.T) {
	content := `
pipeline:
  topics:
    - web3 marketing
    - defi growth
  lookback_days: 14
search:
  provider: offline
  max_results: 3
analyzer:
  provider: anthropic
store:
  provider: memory
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"web3 marketing", "defi growth"}, cfg.Pipeline.Topics)
	assert.Equal(t, 14, cfg.Pipeline.LookbackDays)
	assert.Equal(t, "offline", cfg.Search.Provider)
	assert.Equal(t, 3, cfg.Search.MaxResults)
	assert.Equal(t, "anthropic", cfg.Analyzer.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.Analyzer.Model, "model default follows provider")
	assert.Equal(t, "memory", cfg.Store.Provider)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	content := `
search:
  provider: offline
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("SEARCH_PROVIDER", "serper")
	t.Setenv("SEARCH_API_KEY", "test-key")
	t.Setenv("CONTACT_SMTP_HOST", "mail.example.com")
	t.Setenv("PIPELINE_TOPIC", "nft marketing")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "serper", cfg.Search.Provider)
	assert.Equal(t, "test-key", cfg.Search.APIKey.Value())
	assert.Equal(t, "mail.example.com", cfg.Contact.SMTPHost)
	assert.Equal(t, []string{"nft marketing"}, cfg.Topics())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"negative lookback", func(c *Config) { c.Pipeline.LookbackDays = -1 }, true},
		{"negative max results", func(c *Config) { c.Search.MaxResults = -1 }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"no topics is allowed", func(c *Config) { c.Pipeline.Topics = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			applyDefaults(&cfg)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTopicsOverride(t *testing.T) {
	cfg := Config{
		Pipeline: PipelineConfig{
			Topics: []string{"a", "b"},
			Topic:  "solo",
		},
	}
	assert.Equal(t, []string{"solo"}, cfg.Topics())

	cfg.Pipeline.Topic = ""
	assert.Equal(t, []string{"a", "b"}, cfg.Topics())
}

func TestSecretRedaction(t *testing.T) {
	s := Secret("super-secret")

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%s", s))
	assert.Equal(t, "Secret([REDACTED])", fmt.Sprintf("%#v", s))
	assert.Equal(t, "super-secret", s.Value())

	assert.Equal(t, "", Secret("").String())
}
