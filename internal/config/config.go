// Package config provides configuration loading for linkscout.
package config

import (
	"fmt"
	"time"
)

// Secret wraps strings that should be redacted in logs and serialization.
// Use Value() to access the actual secret value.
type Secret string

// String implements fmt.Stringer. Always returns redacted value.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string {
	return "Secret([REDACTED])"
}

// Value returns the actual secret value. Use sparingly.
func (s Secret) Value() string {
	return string(s)
}

// Config is the root configuration for a linkscout run.
type Config struct {
	Logging  LoggingConfig  `koanf:"logging"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Search   SearchConfig   `koanf:"search"`
	Analyzer AnalyzerConfig `koanf:"analyzer"`
	Contact  ContactConfig  `koanf:"contact"`
	Store    StoreConfig    `koanf:"store"`
}

// LoggingConfig controls zap output.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// PipelineConfig drives the orchestrator.
type PipelineConfig struct {
	// Topics are the search topics for one pass, processed sequentially.
	Topics []string `koanf:"topics"`
	// Topic, when set, overrides Topics with a single entry.
	Topic string `koanf:"topic"`
	// TopicCooldown is the pause between topics (external rate limits).
	TopicCooldown time.Duration `koanf:"topic_cooldown"`
	// LookbackDays bounds the reply poll window in the reconcile stage.
	LookbackDays int `koanf:"lookback_days"`
}

// SearchConfig selects and tunes the search provider.
type SearchConfig struct {
	Provider   string        `koanf:"provider"` // serper or offline
	APIKey     Secret        `koanf:"api_key"`
	BaseURL    string        `koanf:"base_url"`
	MaxResults int           `koanf:"max_results"`
	Delay      time.Duration `koanf:"delay"` // pause between query variants
	Timeout    time.Duration `koanf:"timeout"`
}

// AnalyzerConfig selects the site analyzer.
type AnalyzerConfig struct {
	Provider string        `koanf:"provider"` // openai, anthropic, heuristic, offline
	APIKey   Secret        `koanf:"api_key"`
	Model    string        `koanf:"model"`
	Delay    time.Duration `koanf:"delay"` // pause between site analyses
	Timeout  time.Duration `koanf:"timeout"`
}

// ContactConfig configures outbound delivery and the reply mailbox.
type ContactConfig struct {
	Provider string `koanf:"provider"` // smtp or offline

	SMTPHost   string `koanf:"smtp_host"`
	SMTPPort   int    `koanf:"smtp_port"`
	SMTPUseSSL bool   `koanf:"smtp_use_ssl"`

	IMAPHost   string `koanf:"imap_host"`
	IMAPPort   int    `koanf:"imap_port"`
	IMAPUseSSL bool   `koanf:"imap_use_ssl"`

	Username Secret `koanf:"username"`
	Password Secret `koanf:"password"`

	FromEmail string        `koanf:"from_email"`
	FromName  string        `koanf:"from_name"`
	Delay     time.Duration `koanf:"delay"` // pause between send attempts
}

// StoreConfig selects the opportunity store backend.
type StoreConfig struct {
	Provider string `koanf:"provider"` // sqlite, sheets, memory

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// Sheets backend settings.
	SheetID         string `koanf:"sheet_id"`
	SheetName       string `koanf:"sheet_name"`
	CredentialsFile string `koanf:"credentials_file"`
}

// Validate checks the configuration for fatal problems. Collaborator
// misconfiguration is not fatal: providers downgrade to offline mode at
// construction instead. Topic presence is checked by the orchestrator,
// not here, so read-only commands work without a topic list.
func (c *Config) Validate() error {
	if c.Pipeline.LookbackDays < 0 {
		return fmt.Errorf("pipeline.lookback_days cannot be negative")
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("search.max_results cannot be negative")
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// Topics returns the effective topic list, honoring the single-topic
// override.
func (c *Config) Topics() []string {
	if c.Pipeline.Topic != "" {
		return []string{c.Pipeline.Topic}
	}
	return c.Pipeline.Topics
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Pipeline.TopicCooldown == 0 {
		cfg.Pipeline.TopicCooldown = 5 * time.Second
	}
	if cfg.Pipeline.LookbackDays == 0 {
		cfg.Pipeline.LookbackDays = 7
	}

	if cfg.Search.Provider == "" {
		cfg.Search.Provider = "serper"
	}
	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = "https://google.serper.dev"
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 5
	}
	if cfg.Search.Delay == 0 {
		cfg.Search.Delay = 2 * time.Second
	}
	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = 30 * time.Second
	}

	if cfg.Analyzer.Provider == "" {
		cfg.Analyzer.Provider = "openai"
	}
	if cfg.Analyzer.Model == "" {
		switch cfg.Analyzer.Provider {
		case "anthropic":
			cfg.Analyzer.Model = "claude-3-5-haiku-latest"
		default:
			cfg.Analyzer.Model = "gpt-4o-mini"
		}
	}
	if cfg.Analyzer.Delay == 0 {
		cfg.Analyzer.Delay = 3 * time.Second
	}
	if cfg.Analyzer.Timeout == 0 {
		cfg.Analyzer.Timeout = 60 * time.Second
	}

	if cfg.Contact.Provider == "" {
		cfg.Contact.Provider = "smtp"
	}
	if cfg.Contact.SMTPHost == "" {
		cfg.Contact.SMTPHost = "secure.emailsrvr.com"
	}
	if cfg.Contact.SMTPPort == 0 {
		cfg.Contact.SMTPPort = 465
		cfg.Contact.SMTPUseSSL = true
	}
	if cfg.Contact.IMAPHost == "" {
		cfg.Contact.IMAPHost = cfg.Contact.SMTPHost
	}
	if cfg.Contact.IMAPPort == 0 {
		cfg.Contact.IMAPPort = 993
		cfg.Contact.IMAPUseSSL = true
	}
	if cfg.Contact.FromEmail == "" {
		cfg.Contact.FromEmail = cfg.Contact.Username.Value()
	}
	if cfg.Contact.FromName == "" {
		cfg.Contact.FromName = "Outreach Team"
	}
	if cfg.Contact.Delay == 0 {
		cfg.Contact.Delay = time.Second
	}

	if cfg.Store.Provider == "" {
		cfg.Store.Provider = "sqlite"
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = "linkscout.db"
	}
	if cfg.Store.SheetName == "" {
		cfg.Store.SheetName = "back_link"
	}
}
