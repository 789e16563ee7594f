package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// maxPromptText bounds how much page text is sent to the model.
const maxPromptText = 6000

const analyzePromptTmpl = `You are analyzing a website for guest posting opportunities.

Page URL: %s
Page title: %s
Page text (truncated):
%s

Detected mailto addresses: %s
Detected form/contact URLs: %s

Return ONLY a JSON object with these fields:
- "site_name": the name of the website
- "email": contact email if found, else ""
- "submission_form_url": URL of a submission or contact form if found, else ""
- "guidelines": any guest post guidelines found, else ""`

// llmAnalyzer feeds fetched page content to a language model and
// parses a structured JSON answer. Any model-side fault degrades to
// the heuristic result for the same page with a diagnostic note.
type llmAnalyzer struct {
	model   llms.Model
	timeout time.Duration
	log     *zap.Logger
}

func newLLMAnalyzer(cfg config.AnalyzerConfig, log *zap.Logger) (*llmAnalyzer, error) {
	var model llms.Model
	var err error
	switch cfg.Provider {
	case "anthropic":
		model, err = anthropic.New(
			anthropic.WithToken(cfg.APIKey.Value()),
			anthropic.WithModel(cfg.Model),
		)
	case "openai":
		model, err = openai.New(
			openai.WithToken(cfg.APIKey.Value()),
			openai.WithModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unknown analyzer provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s model: %w", cfg.Provider, err)
	}

	return &llmAnalyzer{
		model:   model,
		timeout: cfg.Timeout,
		log:     log,
	}, nil
}

// Available reports that a live model is configured.
func (a *llmAnalyzer) Available() bool {
	return true
}

// Analyze fetches the page, asks the model for structured extraction,
// and falls back to the heuristic analysis on any model fault.
func (a *llmAnalyzer) Analyze(ctx context.Context, url string) (Analysis, error) {
	p, err := fetchPage(url, a.timeout)
	if err != nil {
		return Analysis{}, err
	}

	fallback := analyzePage(p)

	prompt := fmt.Sprintf(analyzePromptTmpl,
		p.URL,
		p.Title,
		truncateText(p.Text, maxPromptText),
		strings.Join(p.MailtoEmails, ", "),
		strings.Join(append(p.FormActions, p.ContactLinks...), ", "),
	)

	genCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := llms.GenerateFromSinglePrompt(genCtx, a.model, prompt,
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(1024),
	)
	if err != nil {
		a.log.Warn("llm analysis failed, using heuristic result",
			zap.String("url", url), zap.Error(err))
		fallback.Notes = appendNote(fallback.Notes, "llm analysis failed: "+err.Error())
		return fallback, nil
	}

	parsed, err := parseAnalysisJSON(raw)
	if err != nil {
		a.log.Warn("llm returned unparseable analysis, using heuristic result",
			zap.String("url", url), zap.Error(err))
		fallback.Notes = appendNote(fallback.Notes, "llm response unparseable")
		return fallback, nil
	}

	// The model can miss what the page structurally exposes; keep the
	// heuristic findings where the model came back empty.
	if parsed.SiteName == "" {
		parsed.SiteName = fallback.SiteName
	}
	if parsed.Email == "" {
		parsed.Email = fallback.Email
	}
	if parsed.FormURL == "" {
		parsed.FormURL = fallback.FormURL
	}
	if parsed.Guidelines == "" {
		parsed.Guidelines = fallback.Guidelines
	}
	parsed.ContactMethod = ContactMethodFor(parsed.Email, parsed.FormURL)
	return parsed, nil
}

// parseAnalysisJSON extracts the JSON object from a model response,
// tolerating markdown code fences and surrounding prose.
func parseAnalysisJSON(raw string) (Analysis, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return Analysis{}, fmt.Errorf("no JSON object in response")
	}

	var parsed Analysis
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return Analysis{}, fmt.Errorf("failed to parse analysis: %w", err)
	}
	return parsed, nil
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}

var _ Analyzer = (*llmAnalyzer)(nil)
