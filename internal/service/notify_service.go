package service

import (
	"context"
	"fmt"

	"school_exam_backend/internal/config"
	"school_exam_backend/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer delivers a plain text + HTML message to one recipient.
type Mailer interface {
	Send(ctx context.Context, toName, toAddress, subject, text, html string) error
}

type SendgridMailer struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
}

func NewSendgridMailer(cfg config.MailConfig) *SendgridMailer {
	return &SendgridMailer{
		client:      sendgrid.NewSendClient(cfg.SendgridAPIKey),
		fromName:    cfg.FromName,
		fromAddress: cfg.FromAddress,
	}
}

func (m *SendgridMailer) Send(ctx context.Context, toName, toAddress, subject, text, html string) error {
	from := mail.NewEmail(m.fromName, m.fromAddress)
	to := mail.NewEmail(toName, toAddress)
	msg := mail.NewSingleEmail(from, subject, to, text, html)

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer only logs the message. It is used when no SendGrid key is configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, toName, toAddress, subject, text, html string) error {
	logger.Log.Info("mail not configured, message logged only",
		zap.String("to", toAddress),
		zap.String("subject", subject),
		zap.String("body", text),
	)
	return nil
}

func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.SendgridAPIKey == "" || cfg.FromAddress == "" {
		return LogMailer{}
	}
	return NewSendgridMailer(cfg)
}
