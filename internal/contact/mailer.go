package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// ErrNotConfigured is returned by a mailer missing its credentials.
var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Mailer delivers a submission to the site owner.
type Mailer interface {
	Send(ctx context.Context, s Submission) error
}

// SMTPConfig holds the outgoing mail settings.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// SMTPMailer sends submissions through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates an SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// Send composes and sends the notification email. Reply-To is the visitor.
func (m *SMTPMailer) Send(ctx context.Context, s Submission) error {
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := composeMessage(m.cfg.User, m.cfg.To, s)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{m.cfg.To}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func composeMessage(from, to string, s Submission) []byte {
	subject := fmt.Sprintf("Website Contact: %s", headerSafe(s.Name))
	body := "New contact form submission from your website:\n\n" +
		mailBody(s) +
		"\n---\nSent from your website contact form\n"

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + headerSafe(s.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerSafe strips CR/LF so visitor input cannot inject headers.
func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// LogMailer only logs submissions. It stands in for SMTP in development.
type LogMailer struct {
	Logger *slog.Logger
}

// Send logs the submission.
func (m LogMailer) Send(_ context.Context, s Submission) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("contact submission (mail relay disabled)",
		"name", s.Name,
		"email", s.Email,
		"budget", s.Budget,
	)
	return nil
}
