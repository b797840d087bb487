// Package mailer sends transactional email over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"viewtube/internal/config"
	"viewtube/internal/middleware"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers transactional email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewSMTPMailer builds a mailer from the SMTP_* configuration values.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.MailFrom,
	}
}

// Send delivers a single message. Callers treat failures as non-fatal; the
// account flows that trigger email must not fail because the relay is down.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if m.host == "" {
		middleware.Logger.WarnContext(ctx, "SMTP not configured, dropping email",
			slog.String("to", msg.To),
			slog.String("subject", msg.Subject),
		)
		return nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", m.from)
	fmt.Fprintf(&body, "To: %s\r\n", msg.To)
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.from, []string{msg.To}, []byte(body.String())); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	middleware.Logger.InfoContext(ctx, "Email sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}
