// Package orchestrator runs the guest-post outreach pipeline: a fixed
// linear sequence of search, analyze, contact and reconcile stages,
// executed once per topic with topics processed strictly one at a time.
// Per-item failures are recorded and skipped; the only fatal condition
// is having no topics to run.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/analyzer"
	"github.com/fyrsmithlabs/linkscout/internal/contact"
	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
	"go.uber.org/zap"
)

// ErrNoTopics is returned when a run is started without any topics.
var ErrNoTopics = errors.New("no search topics configured")

// Options are the orchestrator's own tunables, passed at construction.
type Options struct {
	// TopicCooldown is the pause between consecutive topics.
	TopicCooldown time.Duration
	// AnalyzeDelay is the pause between consecutive site analyses.
	AnalyzeDelay time.Duration
	// LookbackDays bounds the reply poll window.
	LookbackDays int
	// FromName and FromEmail personalize the outreach template.
	FromName  string
	FromEmail string
}

// Orchestrator drives the four pipeline stages over the collaborators.
type Orchestrator struct {
	searcher Searcher
	analyzer SiteAnalyzer
	channel  ContactChannel
	store    Records
	opts     Options
	log      *zap.Logger
}

// New wires an orchestrator from its collaborators.
func New(searcher Searcher, siteAnalyzer SiteAnalyzer, channel ContactChannel, store Records, opts Options, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		searcher: searcher,
		analyzer: siteAnalyzer,
		channel:  channel,
		store:    store,
		opts:     opts,
		log:      log,
	}
}

// Run executes the pipeline once per topic, sequentially. Cancellation
// is coarse: a cancelled context stops before the next topic starts,
// never mid-item. The partial report is returned alongside the error.
func (o *Orchestrator) Run(ctx context.Context, topics []string) (*Report, error) {
	if len(topics) == 0 {
		return nil, ErrNoTopics
	}

	report := &Report{Started: time.Now()}
	defer func() { report.Finished = time.Now() }()

	for i, topic := range topics {
		if err := ctx.Err(); err != nil {
			o.log.Warn("run cancelled", zap.String("next_topic", topic))
			return report, err
		}

		o.log.Info("processing topic",
			zap.String("topic", topic),
			zap.Int("position", i+1),
			zap.Int("total", len(topics)))

		state := &RunState{Topic: topic}
		o.stageSearch(ctx, state)
		o.stageAnalyze(ctx, state)
		o.stageContact(ctx, state)
		o.stageReconcile(ctx, state)
		report.Topics = append(report.Topics, *state)

		if i < len(topics)-1 {
			o.pause(ctx, o.opts.TopicCooldown)
		}
	}
	return report, nil
}

// stageSearch fans the topic out over the guest-post keyword variants.
// Zero results is a degraded outcome, not a failure.
func (o *Orchestrator) stageSearch(ctx context.Context, state *RunState) {
	results, err := o.searcher.SearchGuestPosts(ctx, state.Topic)
	if err != nil {
		o.log.Warn("search stage degraded",
			zap.String("topic", state.Topic), zap.Error(err))
	}
	state.Results = results
	o.log.Info("search stage complete",
		zap.String("topic", state.Topic), zap.Int("results", len(results)))
}

// stageAnalyze inspects each hit in order. A per-site failure becomes
// an error-status opportunity with a diagnostic note; every produced
// opportunity is persisted immediately so partial progress survives.
func (o *Orchestrator) stageAnalyze(ctx context.Context, state *RunState) {
	for i, result := range state.Results {
		opp := o.analyzeOne(ctx, result.URL, result.Title)

		if err := o.store.Upsert(ctx, opp); err != nil {
			o.log.Warn("failed to persist opportunity",
				zap.String("url", opp.URL), zap.Error(err))
		}
		state.Opportunities = append(state.Opportunities, opp)

		if o.analyzer.Available() && i < len(state.Results)-1 {
			o.pause(ctx, o.opts.AnalyzeDelay)
		}
	}
	o.log.Info("analyze stage complete",
		zap.String("topic", state.Topic),
		zap.Int("opportunities", len(state.Opportunities)))
}

func (o *Orchestrator) analyzeOne(ctx context.Context, url, title string) opportunity.Opportunity {
	analysis, err := o.analyzer.Analyze(ctx, url)
	if err != nil {
		o.log.Warn("site analysis failed", zap.String("url", url), zap.Error(err))
		opp := opportunity.New(url, title)
		opp.Status = opportunity.StatusError
		opp.ContactMethod = opportunity.ContactNone
		opp.Notes = opportunity.Truncate("analysis failed: "+err.Error(), opportunity.MaxTextLen)
		return opp
	}

	siteName := analysis.SiteName
	if siteName == "" {
		siteName = title
	}

	opp := opportunity.New(url, siteName)
	opp.Email = analysis.Email
	opp.FormURL = analysis.FormURL
	opp.Guidelines = analysis.Guidelines
	opp.Notes = analysis.Notes
	opp.ContactMethod = analysis.ContactMethod
	if opp.ContactMethod == "" {
		opp.ContactMethod = analyzer.ContactMethodFor(opp.Email, opp.FormURL)
	}
	return opportunity.Clamp(opp)
}

// stageContact applies the contact policy to every non-error
// opportunity: try the web form first when one exists, fall back to
// email unless the form succeeded, and mark no_contact without a send
// attempt when neither channel is usable. Each result is persisted.
func (o *Orchestrator) stageContact(ctx context.Context, state *RunState) {
	for i, opp := range state.Opportunities {
		if opp.Status == opportunity.StatusError {
			state.Errors++
			continue
		}

		updated, outcome := o.contactOne(ctx, opp)
		if outcome != nil {
			state.EmailsSent = append(state.EmailsSent, SendRecord{
				URL:      updated.URL,
				SiteName: updated.SiteName,
				Outcome:  *outcome,
			})
		}
		if err := o.store.Upsert(ctx, updated); err != nil {
			o.log.Warn("failed to persist contact result",
				zap.String("url", updated.URL), zap.Error(err))
		}
		state.Opportunities[i] = updated

		switch updated.Status {
		case opportunity.StatusContacted:
			state.Contacted++
		case opportunity.StatusNoContact:
			state.NoContact++
		case opportunity.StatusError:
			state.Errors++
		}
	}
	o.log.Info("contact stage complete",
		zap.String("topic", state.Topic),
		zap.Int("contacted", state.Contacted),
		zap.Int("no_contact", state.NoContact),
		zap.Int("errors", state.Errors))
}

// contactOne applies the contact policy to a single opportunity. The
// returned outcome is nil when no delivery was attempted.
func (o *Orchestrator) contactOne(ctx context.Context, opp opportunity.Opportunity) (opportunity.Opportunity, *opportunity.Outcome) {
	if !opp.Contactable() {
		opp.Status = opportunity.StatusNoContact
		opp.EmailStatus = opportunity.EmailStatusNoContact
		opp.Notes = appendNote(opp.Notes, "no usable contact method")
		return opp, nil
	}

	subject, body := contact.GuestPostMessage(opp.SiteName, opp.Guidelines, o.opts.FromName, o.opts.FromEmail)

	var outcome opportunity.Outcome
	attempted := false
	if opp.FormURL != "" {
		outcome = o.channel.SendForm(ctx, opp.FormURL, subject, body)
		attempted = true
	}
	if opp.Email != "" && (!attempted || outcome.Status != opportunity.EmailStatusSuccess) {
		outcome = o.channel.SendEmail(ctx, opp.Email, subject, body)
	}

	if outcome.Detail != "" {
		opp.Notes = appendNote(opp.Notes, outcome.Detail)
	}

	if outcome.Status == opportunity.EmailStatusSuccess {
		opp.Status = opportunity.StatusContacted
		opp.EmailStatus = opportunity.EmailStatusSuccess
		sentAt := outcome.Timestamp
		opp.EmailSentAt = &sentAt
	} else {
		opp.Status = opportunity.StatusError
		opp.EmailStatus = opportunity.EmailStatusError
	}
	return opportunity.Clamp(opp), &outcome
}

// stageReconcile polls unread replies and links each to the first
// stored opportunity whose site name appears, case-insensitively, in
// the reply's subject or body. Matched replies update the record and
// are marked read; unmatched replies are reported but left untouched.
func (o *Orchestrator) stageReconcile(ctx context.Context, state *RunState) {
	replies, err := o.channel.PollReplies(ctx, o.opts.LookbackDays)
	if err != nil {
		o.log.Warn("reply poll failed", zap.Error(err))
		return
	}
	if len(replies) == 0 {
		return
	}

	stored, err := o.store.GetAll(ctx)
	if err != nil {
		o.log.Warn("failed to load opportunities for reconciliation", zap.Error(err))
		return
	}

	for _, reply := range replies {
		match, ok := matchReply(reply, stored)
		if !ok {
			state.RepliesUnmatched = append(state.RepliesUnmatched, reply)
			continue
		}

		summary := fmt.Sprintf("reply received on %s from %s",
			reply.Date.Format("2006-01-02"), reply.From)
		if err := o.store.MarkReplied(ctx, match.URL, summary); err != nil {
			o.log.Warn("failed to record reply",
				zap.String("url", match.URL), zap.Error(err))
			continue
		}
		if err := o.channel.MarkRead(ctx, reply.ID); err != nil {
			o.log.Warn("failed to mark reply read",
				zap.String("reply_id", reply.ID), zap.Error(err))
		}
		state.RepliesMatched++
		o.log.Info("reply reconciled",
			zap.String("url", match.URL), zap.String("from", reply.From))
	}
}

// matchReply finds the first opportunity whose site name is contained
// in the reply subject or body. First match wins, no scoring.
func matchReply(reply opportunity.Reply, stored []opportunity.Opportunity) (opportunity.Opportunity, bool) {
	subject := strings.ToLower(reply.Subject)
	body := strings.ToLower(reply.Body)
	for _, opp := range stored {
		if opp.SiteName == "" {
			continue
		}
		name := strings.ToLower(opp.SiteName)
		if strings.Contains(subject, name) || strings.Contains(body, name) {
			return opp, true
		}
	}
	return opportunity.Opportunity{}, false
}

// DueForFollowup lists opportunities whose follow-up is due today.
func (o *Orchestrator) DueForFollowup(ctx context.Context, today time.Time) ([]opportunity.Opportunity, error) {
	return o.store.DueForFollowup(ctx, today)
}

func (o *Orchestrator) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

func appendNote(existing, note string) string {
	if existing == "" {
		return opportunity.Truncate(note, opportunity.MaxTextLen)
	}
	return opportunity.Truncate(existing+"; "+note, opportunity.MaxTextLen)
}
