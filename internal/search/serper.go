package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/config"
	"golang.org/x/time/rate"
)

// Serper API defaults.
const (
	defaultSerperBaseURL = "https://google.serper.dev"
	defaultMaxRetries    = 3
	defaultBaseBackoff   = 1 * time.Second
)

// Rate limiter defaults: 50 requests per minute.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)

// serperClient implements Provider against the serper.dev search API.
type serperClient struct {
	apiKey      string
	baseURL     string
	maxResults  int
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	baseBackoff time.Duration
}

func newSerperClient(cfg config.SearchConfig) *serperClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultSerperBaseURL
	}
	return &serperClient{
		apiKey:     cfg.APIKey.Value(),
		baseURL:    baseURL,
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:     rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
	}
}

// Available reports that this client talks to the live API.
func (c *serperClient) Available() bool {
	return true
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num,omitempty"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search executes one query with rate limiting and retries for
// transient failures. Every attempt, retries included, takes its own
// rate limiter token.
func (c *serperClient) Search(ctx context.Context, query string) ([]Result, error) {
	req := serperRequest{Query: query, Num: c.maxResults}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.baseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		results, err := c.doRequest(ctx, req)
		if err == nil {
			return results, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doRequest performs the actual HTTP request to the search API.
func (c *serperClient) doRequest(ctx context.Context, req serperRequest) ([]Result, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/search", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("search request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &retryableError{err: fmt.Errorf("rate limited (429)")}
	}
	if resp.StatusCode >= 500 {
		return nil, &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API error (%d): %s", resp.StatusCode, string(body))
	}

	var parsed serperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Malformed provider payload degrades to an empty result set.
		return nil, nil
	}

	results := make([]Result, 0, len(parsed.Organic))
	for _, hit := range parsed.Organic {
		results = append(results, Result{
			URL:         hit.Link,
			Title:       hit.Title,
			Description: hit.Snippet,
		})
	}
	if c.maxResults > 0 && len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	return results, nil
}

// retryableError marks errors worth retrying with backoff.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// isRetryableError checks if an error should trigger a retry.
func isRetryableError(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

var _ Provider = (*serperClient)(nil)
