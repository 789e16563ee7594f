package contact

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/fyrsmithlabs/linkscout/internal/config"
	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
)

// IMAPMailbox reads the inbox for replies to outreach. Each call dials
// a fresh connection; polling happens once per run, so connection reuse
// buys nothing.
type IMAPMailbox struct {
	addr     string
	useSSL   bool
	username string
	password string
}

// NewIMAPMailbox builds the mailbox from configuration.
func NewIMAPMailbox(cfg config.ContactConfig) *IMAPMailbox {
	return &IMAPMailbox{
		addr:     fmt.Sprintf("%s:%d", cfg.IMAPHost, cfg.IMAPPort),
		useSSL:   cfg.IMAPUseSSL,
		username: cfg.Username.Value(),
		password: cfg.Password.Value(),
	}
}

func (m *IMAPMailbox) dial() (*client.Client, error) {
	var c *client.Client
	var err error
	if m.useSSL {
		c, err = client.DialTLS(m.addr, nil)
	} else {
		c, err = client.Dial(m.addr)
	}
	if err != nil {
		return nil, fmt.Errorf("imap dial %s failed: %w", m.addr, err)
	}
	c.Timeout = 30 * time.Second

	if err := c.Login(m.username, m.password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("imap login failed: %w", err)
	}
	return c, nil
}

// Unread returns unseen inbox messages received since the given time.
// Message UIDs become the reply IDs used for mark-read.
func (m *IMAPMailbox) Unread(since time.Time) ([]opportunity.Reply, error) {
	c, err := m.dial()
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("imap select failed: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	criteria.WithoutFlags = []string{imap.SeenFlag}

	uids, err := c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("imap search failed: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	section := &imap.BodySectionName{
		BodyPartName: imap.BodyPartName{Specifier: imap.TextSpecifier},
		Peek:         true, // reading must not implicitly mark as seen
	}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqset, items, messages)
	}()

	var replies []opportunity.Reply
	for msg := range messages {
		reply := opportunity.Reply{
			ID: strconv.FormatUint(uint64(msg.Uid), 10),
		}
		if env := msg.Envelope; env != nil {
			reply.Subject = env.Subject
			reply.Date = env.Date
			if len(env.From) > 0 {
				reply.From = env.From[0].Address()
			}
		}
		if body := msg.GetBody(section); body != nil {
			raw, err := io.ReadAll(body)
			if err == nil {
				reply.Body = string(raw)
			}
		}
		for _, flag := range msg.Flags {
			if flag == imap.SeenFlag {
				reply.IsRead = true
			}
		}
		replies = append(replies, reply)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap fetch failed: %w", err)
	}
	return replies, nil
}

// MarkRead adds the Seen flag to a message by UID. Adding a flag that
// is already set is a server-side no-op, so marking twice is safe.
func (m *IMAPMailbox) MarkRead(id string) error {
	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid message id %q: %w", id, err)
	}

	c, err := m.dial()
	if err != nil {
		return err
	}
	defer c.Logout()

	if _, err := c.Select("INBOX", false); err != nil {
		return fmt.Errorf("imap select failed: %w", err)
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(uid))

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}
	if err := c.UidStore(seqset, item, flags, nil); err != nil {
		return fmt.Errorf("imap store failed: %w", err)
	}
	return nil
}
