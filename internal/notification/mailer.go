package notification

import (
	"context"
)

// Mailer отправляет письма клиентам и мастерам. Реализации не должны
// блокировать обработку запроса дольше разумного; ошибки отправки
// логируются, но не срывают бизнес-операцию.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NoopMailer используется, когда SMTP не настроен.
type NoopMailer struct{}

func (NoopMailer) Send(ctx context.Context, to, subject, body string) error {
	return nil
}
