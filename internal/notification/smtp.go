package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"strizh/config"
)

type SMTPMailer struct {
	addr   string
	from   string
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		from:   cfg.From,
		logger: logger,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.from,
		to,
		subject,
		body,
	)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		m.logger.Error("ошибка отправки письма", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("ошибка отправки письма: %w", err)
	}

	return nil
}
