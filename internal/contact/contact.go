// Package contact delivers outreach messages and polls for replies.
// Two delivery strategies exist: direct email over SMTP and web form
// submission over HTTP. Reply polling reads the IMAP inbox. When mail
// credentials are missing the channel runs in offline mode and
// synthesizes outcomes so the pipeline stays exercisable.
package contact

import (
	"context"

	"github.com/fyrsmithlabs/linkscout/internal/config"
	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
	"go.uber.org/zap"
)

// Channel sends outreach messages and reads replies. Send methods
// return a normalized outcome rather than an error: a failed delivery
// is data for the caller's policy, not a fault.
type Channel interface {
	// SendForm submits the message through a site's web form.
	SendForm(ctx context.Context, formURL, subject, message string) opportunity.Outcome

	// SendEmail delivers the message to an address over SMTP.
	SendEmail(ctx context.Context, to, subject, message string) opportunity.Outcome

	// PollReplies returns unread inbound messages no older than the
	// lookback window.
	PollReplies(ctx context.Context, lookbackDays int) ([]opportunity.Reply, error)

	// MarkRead flags a message as read. Marking twice is a no-op.
	MarkRead(ctx context.Context, id string) error

	// Available reports whether a live mail transport is configured.
	Available() bool
}

// New selects the channel from configuration. Missing credentials
// downgrade to the offline channel instead of failing.
func New(cfg config.ContactConfig, log *zap.Logger) Channel {
	if cfg.Provider == "offline" {
		return NewOfflineChannel()
	}
	if cfg.Username.Value() == "" || cfg.Password.Value() == "" {
		log.Warn("mail credentials missing, using offline contact channel")
		return NewOfflineChannel()
	}
	return NewLiveChannel(cfg, log)
}
