package orchestrator

import (
	"context"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/analyzer"
	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
	"github.com/fyrsmithlabs/linkscout/internal/search"
)

// Searcher is the discovery stage collaborator.
type Searcher interface {
	SearchGuestPosts(ctx context.Context, topic string) ([]search.Result, error)
	Available() bool
}

// SiteAnalyzer is the analysis stage collaborator.
type SiteAnalyzer interface {
	Analyze(ctx context.Context, url string) (analyzer.Analysis, error)
	Available() bool
}

// ContactChannel is the contact and reconcile stage collaborator.
type ContactChannel interface {
	SendForm(ctx context.Context, formURL, subject, message string) opportunity.Outcome
	SendEmail(ctx context.Context, to, subject, message string) opportunity.Outcome
	PollReplies(ctx context.Context, lookbackDays int) ([]opportunity.Reply, error)
	MarkRead(ctx context.Context, id string) error
	Available() bool
}

// Records is the slice of the opportunity store the pipeline needs.
type Records interface {
	Upsert(ctx context.Context, opp opportunity.Opportunity) error
	GetAll(ctx context.Context) ([]opportunity.Opportunity, error)
	MarkReplied(ctx context.Context, url, summary string) error
	DueForFollowup(ctx context.Context, today time.Time) ([]opportunity.Opportunity, error)
}

// SendRecord pairs an opportunity with the outcome of one delivery
// attempt made for it during the contact stage.
type SendRecord struct {
	URL      string              `json:"url"`
	SiteName string              `json:"site_name"`
	Outcome  opportunity.Outcome `json:"outcome"`
}

// RunState accumulates one topic's trip through the pipeline. Each
// stage reads what earlier stages produced and appends its own results;
// it is owned by a single run and never shared.
type RunState struct {
	Topic         string                    `json:"topic"`
	Results       []search.Result           `json:"results"`
	Opportunities []opportunity.Opportunity `json:"opportunities"`
	EmailsSent    []SendRecord              `json:"emails_sent,omitempty"`

	Contacted int `json:"contacted"`
	NoContact int `json:"no_contact"`
	Errors    int `json:"errors"`

	RepliesMatched   int                 `json:"replies_matched"`
	RepliesUnmatched []opportunity.Reply `json:"replies_unmatched,omitempty"`
}

// Report is the outcome of a full batch run.
type Report struct {
	Started  time.Time  `json:"started"`
	Finished time.Time  `json:"finished"`
	Topics   []RunState `json:"topics"`
}

// Totals aggregates the per-topic counters.
type Totals struct {
	Discovered       int
	Contacted        int
	NoContact        int
	Errors           int
	RepliesMatched   int
	RepliesUnmatched int
}

// Totals sums counters across all topics in the report.
func (r *Report) Totals() Totals {
	var t Totals
	for _, s := range r.Topics {
		t.Discovered += len(s.Results)
		t.Contacted += s.Contacted
		t.NoContact += s.NoContact
		t.Errors += s.Errors
		t.RepliesMatched += s.RepliesMatched
		t.RepliesUnmatched += len(s.RepliesUnmatched)
	}
	return t
}
