package notifier

import (
	"fmt"
	"net/smtp"

	"storefront_api/internal/pkg/config"
)

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// smtpMailer delivers through a plain SMTP relay.
type smtpMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer returns a Mailer for the configured relay, or nil when SMTP
// is not configured. A nil Mailer makes the pool log-only.
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		return nil
	}
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body))

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
}
