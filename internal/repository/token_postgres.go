package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"strizh/internal/domain"
)

// TokenRepo хранит одноразовые токены (magic link, сброс пароля) в БД
// с истечением, чтобы вход работал при нескольких экземплярах сервиса.
type TokenRepo struct {
	db *pgxpool.Pool
}

func NewTokenRepository(db *pgxpool.Pool) *TokenRepo {
	return &TokenRepo{
		db: db,
	}
}

func (r *TokenRepo) Create(ctx context.Context, token domain.ActionToken) error {
	query := `
		INSERT INTO action_tokens (token, kind, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		token.Token,
		token.Kind,
		token.UserID,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}

	return nil
}

func (r *TokenRepo) Get(ctx context.Context, token string, kind domain.ActionTokenKind) (*domain.ActionToken, error) {
	query := `
		SELECT token, kind, user_id, expires_at, created_at
		FROM action_tokens
		WHERE token = $1 AND kind = $2
	`

	var t domain.ActionToken
	err := r.db.QueryRow(ctx, query, token, kind).Scan(
		&t.Token,
		&t.Kind,
		&t.UserID,
		&t.ExpiresAt,
		&t.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения токена: %w", err)
	}

	return &t, nil
}

func (r *TokenRepo) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM action_tokens WHERE token = $1`

	_, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("ошибка удаления токена: %w", err)
	}

	return nil
}

func (r *TokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM action_tokens WHERE expires_at < $1`

	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления истекших токенов: %w", err)
	}

	return tag.RowsAffected(), nil
}
