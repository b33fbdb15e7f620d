package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/afpthedev/smyapp/internal/config"
	"github.com/afpthedev/smyapp/pkg/logger"
)

type Service interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

// dialer is the part of gomail.Dialer the SMTP service uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpService struct {
	dialer dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) Send(ctx context.Context, to string, subject string, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

type logService struct {
	logger *logger.Logger
}

// NewLogService only logs outgoing mail. It is used when no SMTP host is configured.
func NewLogService(logger *logger.Logger) Service {
	return &logService{logger: logger}
}

func (s *logService) Send(ctx context.Context, to string, subject string, body string) error {
	s.logger.Info("email not sent, smtp disabled", "to", to, "subject", subject)
	return nil
}
