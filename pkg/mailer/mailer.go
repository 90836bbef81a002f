package mailer

import (
	"context"
	"errors"

	"gopkg.in/gomail.v2"

	"github.com/quanmat/fasalmitra-backend/pkg/config"
	"github.com/quanmat/fasalmitra-backend/pkg/logger"
)

// Sender delivers a plain-text/HTML email to a single recipient. Services
// depend on this interface so tests can capture sends.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender delivers mail through the configured SMTP relay.
type SMTPSender struct {
	cfg    config.SMTPConfig
	logger *logger.Logger
}

// NewSMTPSender validates the relay configuration.
func NewSMTPSender(cfg config.SMTPConfig, logg *logger.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	return &SMTPSender{cfg: cfg, logger: logg}, nil
}

// Send dials the relay and delivers the message. Failures are logged and
// returned; callers decide whether mail delivery is fatal for the operation.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.DefaultFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		if s.logger != nil {
			s.logger.Error(ctx, "smtp send failed", err)
		}
		return err
	}
	if s.logger != nil {
		s.logger.Info(s.logger.WithFields(ctx, map[string]any{"subject": subject}), "email sent")
	}
	return nil
}
