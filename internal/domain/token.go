package domain

import (
	"time"
)

type ActionTokenKind string

const (
	ActionTokenMagicLink     ActionTokenKind = "magic_link"
	ActionTokenPasswordReset ActionTokenKind = "password_reset"
)

// ActionToken — одноразовый токен с истечением, хранится в БД,
// чтобы вход по ссылке работал при нескольких экземплярах сервиса.
type ActionToken struct {
	Token     string          `json:"token"`
	Kind      ActionTokenKind `json:"kind"`
	UserID    int64           `json:"user_id"`
	ExpiresAt time.Time       `json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
}
