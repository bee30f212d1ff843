package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/fahim-cse12/AutoDiagon/internal/core/port"
)

// SMTPConfig holds the settings for the outbound SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers messages over a plain SMTP relay with optional
// AUTH PLAIN credentials.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPSender constructs an SMTPSender from config. Auth is enabled only
// when a username is set.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

// Send delivers a single message. The context is honored before dialing;
// net/smtp does not support cancellation mid-session.
func (s *SMTPSender) Send(ctx context.Context, msg port.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload := buildPayload(s.from, msg)
	if err := smtp.SendMail(s.addr, s.auth, s.from, msg.To, payload); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildPayload(from string, msg port.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

var _ port.MailSender = (*SMTPSender)(nil)
