// Package opportunity defines the domain model for guest-post outreach:
// the Opportunity record tracked through discovery, contact and reply,
// plus the inbound Reply and delivery Outcome types shared by the
// pipeline stages.
package opportunity

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTextLen is the write-time truncation limit for free-text fields
// (guidelines, notes). Spreadsheet cells choke on unbounded page dumps.
const MaxTextLen = 1000

// Status is the lifecycle state of an opportunity.
type Status string

const (
	StatusPending   Status = "pending"
	StatusContacted Status = "contacted"
	StatusError     Status = "error"
	StatusNoContact Status = "no_contact"
)

// ContactMethod describes how a site can be reached.
type ContactMethod string

const (
	ContactNone  ContactMethod = "none"
	ContactEmail ContactMethod = "email"
	ContactForm  ContactMethod = "form"
	ContactBoth  ContactMethod = "both"
)

// EmailStatus is the outcome of the most recent send attempt.
// The empty string means no attempt has been made yet.
type EmailStatus string

const (
	EmailStatusNone      EmailStatus = ""
	EmailStatusSuccess   EmailStatus = "success"
	EmailStatusFailed    EmailStatus = "failed"
	EmailStatusError     EmailStatus = "error"
	EmailStatusNoContact EmailStatus = "no_contact"
)

// DeliveryMethod identifies the channel used for a send attempt.
type DeliveryMethod string

const (
	MethodSMTP    DeliveryMethod = "smtp"
	MethodWebForm DeliveryMethod = "web_form"
)

// Opportunity is one discovered candidate site. URL is the unique key
// within a store; everything else is merge-updated over the lifecycle.
type Opportunity struct {
	ID            string        `json:"id"`
	Date          time.Time     `json:"date"` // discovery time
	SiteName      string        `json:"site_name"`
	URL           string        `json:"url"`
	Email         string        `json:"email,omitempty"`
	ContactMethod ContactMethod `json:"contact_method"`
	FormURL       string        `json:"submission_form_url,omitempty"`
	Status        Status        `json:"status"`
	EmailStatus   EmailStatus   `json:"email_status"`
	EmailSentAt   *time.Time    `json:"email_sent_at,omitempty"`
	Guidelines    string        `json:"guidelines"`
	Notes         string        `json:"notes"`
	FollowUpDate  *time.Time    `json:"follow_up_date,omitempty"`
	ResponseSum   string        `json:"response_summary,omitempty"`
}

// New creates a pending opportunity for a URL discovered now.
func New(url, siteName string) Opportunity {
	return Opportunity{
		ID:       uuid.NewString(),
		Date:     time.Now(),
		SiteName: siteName,
		URL:      url,
		Status:   StatusPending,
	}
}

// Contactable reports whether any contact method is usable.
func (o Opportunity) Contactable() bool {
	return o.Email != "" || o.FormURL != ""
}

// Merge applies the non-zero fields of update onto base and returns the
// result. Zero-valued fields of update are treated as omitted, so a
// later partial upsert never erases what an earlier stage recorded.
// Text fields are truncated at merge time.
func Merge(base, update Opportunity) Opportunity {
	out := base
	if update.ID != "" {
		out.ID = update.ID
	}
	if !update.Date.IsZero() {
		out.Date = update.Date
	}
	if update.SiteName != "" {
		out.SiteName = update.SiteName
	}
	if update.Email != "" {
		out.Email = update.Email
	}
	if update.ContactMethod != "" {
		out.ContactMethod = update.ContactMethod
	}
	if update.FormURL != "" {
		out.FormURL = update.FormURL
	}
	if update.Status != "" {
		out.Status = update.Status
	}
	if update.EmailStatus != "" {
		out.EmailStatus = update.EmailStatus
	}
	if update.EmailSentAt != nil {
		out.EmailSentAt = update.EmailSentAt
	}
	if update.Guidelines != "" {
		out.Guidelines = update.Guidelines
	}
	if update.Notes != "" {
		out.Notes = update.Notes
	}
	if update.FollowUpDate != nil {
		out.FollowUpDate = update.FollowUpDate
	}
	if update.ResponseSum != "" {
		out.ResponseSum = update.ResponseSum
	}
	return Clamp(out)
}

// Clamp enforces write-time field limits on free-text fields.
func Clamp(o Opportunity) Opportunity {
	o.Guidelines = Truncate(o.Guidelines, MaxTextLen)
	o.Notes = Truncate(o.Notes, MaxTextLen)
	return o
}

// Truncate cuts s to at most n characters. The limit counts runes, not
// bytes, so multibyte text keeps its full allowance.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Reply is an inbound message pulled from the contact channel. It is
// ephemeral: matched against stored opportunities, then marked read.
type Reply struct {
	ID      string    `json:"id"` // provider-local identifier
	From    string    `json:"from"`
	Subject string    `json:"subject"`
	Date    time.Time `json:"date"`
	Body    string    `json:"body"`
	IsRead  bool      `json:"is_read"`
}

// Outcome is the normalized result of one delivery attempt.
type Outcome struct {
	Status    EmailStatus    `json:"status"`
	Method    DeliveryMethod `json:"method"`
	Timestamp time.Time      `json:"timestamp"`
	Detail    string         `json:"detail,omitempty"`
	// Offline marks an outcome synthesized by a degraded-mode channel;
	// it exercised the pipeline but nothing was actually delivered.
	Offline bool `json:"offline,omitempty"`
}
