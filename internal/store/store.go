// Package store persists opportunities as spreadsheet-style rows keyed
// by URL. Backends: sqlite (local file), Google Sheets, and in-memory
// (degraded mode and tests). All share the same merge-upsert and
// follow-up selection semantics.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
)

// ErrNotFound is returned when no opportunity exists for a URL.
var ErrNotFound = errors.New("opportunity not found")

// Columns is the fixed spreadsheet column set, in order.
var Columns = []string{
	"Date",
	"Site Name",
	"URL",
	"Email",
	"Contact Method",
	"Form URL",
	"Status",
	"Email Status",
	"Email Sent At",
	"Guidelines",
	"Notes",
	"Follow-up Date",
	"Response Summary",
}

// Timestamp layouts used in persisted rows.
const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// Store is the durable record of discovered opportunities.
//
// Upsert inserts a new row when the URL is unseen, otherwise it
// merge-updates: zero-valued fields of the given opportunity never
// erase previously stored values. The same logical record is upserted
// repeatedly across a run; later partial updates must not lose what
// earlier stages wrote.
type Store interface {
	Upsert(ctx context.Context, opp opportunity.Opportunity) error

	// GetAll returns every opportunity in insertion order.
	GetAll(ctx context.Context) ([]opportunity.Opportunity, error)

	// FindByURL returns the opportunity for a URL, or ErrNotFound.
	FindByURL(ctx context.Context, url string) (*opportunity.Opportunity, error)

	// MarkReplied records a received reply: sets the response summary
	// and clears any pending follow-up date.
	MarkReplied(ctx context.Context, url, summary string) error

	// DueForFollowup returns opportunities that were emailed
	// successfully, have no recorded response, and whose follow-up is
	// due: an explicit follow-up date on or before today, or no date
	// and an email sent at least seven days ago.
	DueForFollowup(ctx context.Context, today time.Time) ([]opportunity.Opportunity, error)

	// Available reports whether the backend persists durably; the
	// in-memory store returns false.
	Available() bool

	Close() error
}

// followupGrace is how long an unanswered opportunity without an
// explicit follow-up date waits before becoming due.
const followupGrace = 7 * 24 * time.Hour

// dueForFollowup applies the shared follow-up selection rule.
// Explicit follow-up dates compare at calendar-date granularity, each
// timestamp read in its own location, so a follow-up dated today is due
// at any hour regardless of zone.
func dueForFollowup(o opportunity.Opportunity, today time.Time) bool {
	if o.EmailStatus != opportunity.EmailStatusSuccess || o.ResponseSum != "" {
		return false
	}
	if o.FollowUpDate != nil {
		return !calendarDay(*o.FollowUpDate).After(calendarDay(today))
	}
	return o.EmailSentAt != nil && today.Sub(*o.EmailSentAt) >= followupGrace
}

// calendarDay normalizes a timestamp to its own calendar date.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// rowFor flattens an opportunity into the fixed column order.
func rowFor(o opportunity.Opportunity) []string {
	o = opportunity.Clamp(o)
	return []string{
		formatTime(&o.Date, timeLayout),
		o.SiteName,
		o.URL,
		o.Email,
		string(o.ContactMethod),
		o.FormURL,
		string(o.Status),
		string(o.EmailStatus),
		formatTime(o.EmailSentAt, timeLayout),
		o.Guidelines,
		o.Notes,
		formatTime(o.FollowUpDate, dateLayout),
		o.ResponseSum,
	}
}

// fromRow rebuilds an opportunity from a persisted row, tolerating
// short rows from hand-edited sheets.
func fromRow(row []string) opportunity.Opportunity {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	return opportunity.Opportunity{
		Date:          parseTimeOrZero(get(0), timeLayout),
		SiteName:      get(1),
		URL:           get(2),
		Email:         get(3),
		ContactMethod: opportunity.ContactMethod(get(4)),
		FormURL:       get(5),
		Status:        opportunity.Status(get(6)),
		EmailStatus:   opportunity.EmailStatus(get(7)),
		EmailSentAt:   parseTimePtr(get(8), timeLayout),
		Guidelines:    get(9),
		Notes:         get(10),
		FollowUpDate:  parseTimePtr(get(11), dateLayout),
		ResponseSum:   get(12),
	}
}

func formatTime(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

func parseTimePtr(s, layout string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil
	}
	return &t
}

func parseTimeOrZero(s, layout string) time.Time {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
