// Package mailer delivers account emails over SMTP.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"

	"shelfit/internal/logging"
)

const DefaultFrom = "ShelfIt <no-reply@shelfit.app>"

// Sender is the part of gomail.Dialer the mailer uses.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Timeout  time.Duration
	// InsecureSkipVerify disables certificate checks, for local relays with self-signed certs.
	InsecureSkipVerify bool
}

type SMTPMailer struct {
	sender  Sender
	from    string
	timeout time.Duration
	log     logging.Logger
}

// NewSMTP builds a mailer that dials cfg.Host for every message.
func NewSMTP(cfg Config, log logging.Logger) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return New(d, cfg.From, cfg.Timeout, log)
}

func New(sender Sender, from string, timeout time.Duration, log logging.Logger) *SMTPMailer {
	if from == "" {
		from = DefaultFrom
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SMTPMailer{sender: sender, from: from, timeout: timeout, log: log}
}

// SendVerification mails the account verification link to the new user.
func (m *SMTPMailer) SendVerification(ctx context.Context, to, verifyURL string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Verify your ShelfIt account")
	msg.SetBody("text/plain", fmt.Sprintf("Hi! Click to verify your ShelfIt account: %s", verifyURL))
	msg.AddAlternative("text/html", verificationHTML(verifyURL))

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	// gomail bounds only the dial. On timeout the send is left running detached and its
	// result is dropped into the buffered channel.
	done := make(chan error, 1)
	go func() { done <- m.sender.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			m.log.Warn(ctx, "verification email failed", "email", to, "error", err)
			return fmt.Errorf("send verification email: %w", err)
		}
		m.log.Info(ctx, "verification email sent", "email", to)
		return nil
	case <-ctx.Done():
		m.log.Warn(ctx, "verification email timed out", "email", to)
		return fmt.Errorf("send verification email: %w", ctx.Err())
	}
}

func verificationHTML(verifyURL string) string {
	return fmt.Sprintf(`<p>Hi!</p><p><a href="%s">Click to verify your ShelfIt account</a></p>`,
		html.EscapeString(verifyURL))
}
