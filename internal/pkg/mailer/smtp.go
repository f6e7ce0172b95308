package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/invtrack/inventory/internal/config"
	"github.com/invtrack/inventory/internal/pkg/logger"
)

// SMTPMailer sends plain-text email over SMTP
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

// NewSMTPMailer creates a new SMTP mailer from configuration
func NewSMTPMailer(cfg *config.Config, log *logger.Logger) *SMTPMailer {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &SMTPMailer{
		dialer: dialer,
		from:   cfg.SMTP.From,
		logger: log,
	}
}

// Send delivers a single plain-text message. No retry or queueing: the caller
// decides what a delivery failure means.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.WithFields(map[string]interface{}{
			"to":      to,
			"subject": subject,
		}).Error("Failed to send email", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.WithFields(map[string]interface{}{
		"to":      to,
		"subject": subject,
	}).Info("Email sent")

	return nil
}
