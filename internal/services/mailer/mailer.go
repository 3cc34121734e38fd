package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/jfmcewan/gamehub/internal/config"
)

// Mailer delivers account emails. Implementations must be safe for
// concurrent use.
type Mailer interface {
	SendVerification(ctx context.Context, to, username, verifyURL string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *slog.Logger
}

// NewSMTP creates a mailer backed by the configured SMTP relay.
func NewSMTP(cfg config.MailConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) SendVerification(ctx context.Context, to, username, verifyURL string) error {
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Verify your account\r\n\r\nHi %s,\r\n\r\nConfirm your email address by visiting:\r\n%s\r\n",
		m.cfg.From, to, username, verifyURL,
	)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send verification mail: %w", err)
	}

	m.logger.Info("sent verification email", "to", to)
	return nil
}

// LogMailer logs mail instead of sending it. Used in development and
// whenever no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLog creates a mailer that only logs.
func NewLog(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendVerification(_ context.Context, to, username, verifyURL string) error {
	m.logger.Info("verification email (not sent)",
		"to", to,
		"username", username,
		"url", verifyURL,
	)
	return nil
}

// FromConfig picks an SMTP mailer when one is configured, otherwise the
// logging mailer.
func FromConfig(cfg config.MailConfig, logger *slog.Logger) Mailer {
	if cfg.Enabled() {
		return NewSMTP(cfg, logger)
	}
	return NewLog(logger)
}
