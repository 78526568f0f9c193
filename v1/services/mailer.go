package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"os"

	"github.com/seva-trust/portal-backend/shared/utils"
)

// Mailer sends transactional email. Delivery itself is an external concern;
// implementations stay thin.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail through a configured SMTP relay
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewSMTPMailer builds an SMTP mailer from the environment
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{
		host: os.Getenv("SMTP_HOST"),
		port: utils.GetEnvOrDefault("SMTP_PORT", "587"),
		user: os.Getenv("SMTP_USERNAME"),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: utils.GetEnvOrDefault("SMTP_FROM", "noreply@sevatrust.org"),
	}
}

// Send delivers a plain-text message to one recipient
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body))
	addr := m.host + ":" + m.port

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.from, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send mail to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMailer logs mail instead of sending it. Used when SMTP is not configured
// and in tests.
type LogMailer struct{}

// Send logs the message and succeeds
func (LogMailer) Send(ctx context.Context, to, subject, body string) error {
	slog.Info("mail (not sent, SMTP unconfigured)", "to", to, "subject", subject)
	return nil
}

// NewMailerFromEnv returns an SMTP mailer when SMTP_HOST is set, otherwise a
// logging fallback so the rest of the app never special-cases mail config.
func NewMailerFromEnv() Mailer {
	if os.Getenv("SMTP_HOST") == "" {
		slog.Warn("SMTP_HOST not set, outgoing mail will be logged only")
		return LogMailer{}
	}
	return NewSMTPMailer()
}
