package repository

import (
	"context"
	"errors"
	"io"
)

// ErrObjectMissing — метаданные могут существовать, а объекта в хранилище нет.
// Сервисный слой обязан отличать это состояние от "файл не найден".
var ErrObjectMissing = errors.New("object missing in storage")

type StorageRepository interface {
	Upload(ctx context.Context, path string, content io.Reader, size int64, contentType string) error
	Download(ctx context.Context, path string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, path string) error
}
