package contact

import (
	"context"
	"sync"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
)

// OfflineChannel synthesizes delivery outcomes without touching any
// transport. Outcomes are flagged offline so records built from them
// are recognizable as non-authoritative.
type OfflineChannel struct {
	mu   sync.Mutex
	read map[string]bool
}

// NewOfflineChannel creates the degraded-mode channel.
func NewOfflineChannel() *OfflineChannel {
	return &OfflineChannel{read: make(map[string]bool)}
}

// Available always reports false.
func (c *OfflineChannel) Available() bool {
	return false
}

// SendForm pretends the form submission succeeded.
func (c *OfflineChannel) SendForm(_ context.Context, formURL, _, _ string) opportunity.Outcome {
	return opportunity.Outcome{
		Status:    opportunity.EmailStatusSuccess,
		Method:    opportunity.MethodWebForm,
		Timestamp: time.Now(),
		Detail:    "offline mode, form not actually submitted: " + formURL,
		Offline:   true,
	}
}

// SendEmail pretends the email was delivered.
func (c *OfflineChannel) SendEmail(_ context.Context, to, _, _ string) opportunity.Outcome {
	return opportunity.Outcome{
		Status:    opportunity.EmailStatusSuccess,
		Method:    opportunity.MethodSMTP,
		Timestamp: time.Now(),
		Detail:    "offline mode, email not actually sent: " + to,
		Offline:   true,
	}
}

// PollReplies reports an empty inbox.
func (c *OfflineChannel) PollReplies(_ context.Context, _ int) ([]opportunity.Reply, error) {
	return nil, nil
}

// MarkRead records the id; repeated calls are no-ops.
func (c *OfflineChannel) MarkRead(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.read[id] = true
	return nil
}

var _ Channel = (*OfflineChannel)(nil)
