package contact

import (
	"context"
	"errors"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/config"
	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
	"go.uber.org/zap"
)

// LiveChannel delivers through real SMTP/HTTP transports and polls a
// real IMAP inbox.
type LiveChannel struct {
	mailer    *SMTPSender
	form      *FormSubmitter
	inbox     *IMAPMailbox
	fromEmail string
	fromName  string
	delay     time.Duration
	log       *zap.Logger
}

// NewLiveChannel wires the concrete transports from configuration.
func NewLiveChannel(cfg config.ContactConfig, log *zap.Logger) *LiveChannel {
	return &LiveChannel{
		mailer:    NewSMTPSender(cfg),
		form:      NewFormSubmitter(30 * time.Second),
		inbox:     NewIMAPMailbox(cfg),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		delay:     cfg.Delay,
		log:       log,
	}
}

// Available reports that live transports are configured.
func (c *LiveChannel) Available() bool {
	return true
}

// SendForm submits the message through the site's web form. A missing
// or rejecting form yields a failed outcome; transport faults yield an
// error outcome. Both leave the caller free to fall back to email.
func (c *LiveChannel) SendForm(ctx context.Context, formURL, subject, message string) opportunity.Outcome {
	err := c.form.Submit(ctx, formURL, Submission{
		Subject:   subject,
		Message:   message,
		FromEmail: c.fromEmail,
		FromName:  c.fromName,
	})
	c.pause(ctx)

	outcome := opportunity.Outcome{
		Method:    opportunity.MethodWebForm,
		Timestamp: time.Now(),
	}
	switch {
	case err == nil:
		outcome.Status = opportunity.EmailStatusSuccess
	case errors.Is(err, ErrNoForm):
		outcome.Status = opportunity.EmailStatusFailed
		outcome.Detail = err.Error()
	default:
		c.log.Warn("form submission failed", zap.String("form_url", formURL), zap.Error(err))
		outcome.Status = opportunity.EmailStatusError
		outcome.Detail = err.Error()
	}
	return outcome
}

// SendEmail delivers the message over SMTP.
func (c *LiveChannel) SendEmail(ctx context.Context, to, subject, message string) opportunity.Outcome {
	err := c.mailer.Send(to, subject, message)
	c.pause(ctx)

	outcome := opportunity.Outcome{
		Method:    opportunity.MethodSMTP,
		Timestamp: time.Now(),
	}
	if err != nil {
		c.log.Warn("smtp send failed", zap.String("to", to), zap.Error(err))
		outcome.Status = opportunity.EmailStatusError
		outcome.Detail = err.Error()
		return outcome
	}
	outcome.Status = opportunity.EmailStatusSuccess
	return outcome
}

// PollReplies reads unread inbox messages within the lookback window.
func (c *LiveChannel) PollReplies(_ context.Context, lookbackDays int) ([]opportunity.Reply, error) {
	since := time.Now().AddDate(0, 0, -lookbackDays)
	return c.inbox.Unread(since)
}

// MarkRead flags a message as seen; idempotent.
func (c *LiveChannel) MarkRead(_ context.Context, id string) error {
	return c.inbox.MarkRead(id)
}

// pause spaces out consecutive delivery attempts.
func (c *LiveChannel) pause(ctx context.Context) {
	if c.delay <= 0 {
		return
	}
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
	}
}

var _ Channel = (*LiveChannel)(nil)
