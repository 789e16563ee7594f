package contact

import (
	"fmt"

	"github.com/fyrsmithlabs/linkscout/internal/config"
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers plain-text mail through a configured SMTP server.
type SMTPSender struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

// NewSMTPSender builds the sender. With SSL enabled the dialer opens an
// implicit TLS connection (port 465 style); otherwise it upgrades with
// STARTTLS when the server offers it.
func NewSMTPSender(cfg config.ContactConfig) *SMTPSender {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username.Value(), cfg.Password.Value())
	dialer.SSL = cfg.SMTPUseSSL

	return &SMTPSender{
		dialer:    dialer,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

// Send delivers one message.
func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.fromEmail, s.fromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}
