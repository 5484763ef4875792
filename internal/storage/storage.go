package storage

import (
	"context"
	"errors"
	"time"
)

var ErrStorageNotConfigured = errors.New("файловое хранилище не настроено")

type FileStorage interface {
	UploadFile(ctx context.Context, data []byte, filename string) (string, error)

	DeleteFile(ctx context.Context, fileURL string) error

	GetFile(ctx context.Context, fileURL string) ([]byte, error)

	GetPresignedURL(ctx context.Context, fileURL string, expiry time.Duration) (string, error)
}

// NoopStorage подставляется, когда S3 не настроен: все операции возвращают ошибку.
type NoopStorage struct{}

func (NoopStorage) UploadFile(ctx context.Context, data []byte, filename string) (string, error) {
	return "", ErrStorageNotConfigured
}

func (NoopStorage) DeleteFile(ctx context.Context, fileURL string) error {
	return ErrStorageNotConfigured
}

func (NoopStorage) GetFile(ctx context.Context, fileURL string) ([]byte, error) {
	return nil, ErrStorageNotConfigured
}

func (NoopStorage) GetPresignedURL(ctx context.Context, fileURL string, expiry time.Duration) (string, error) {
	return "", ErrStorageNotConfigured
}
