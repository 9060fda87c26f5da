package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Типизированные ошибки file-service для маппинга в сервисном слое.
// Сетевые сбои и таймауты — ErrUnavailable, ответы 404/410 — свои
// ошибки. Повторов нет: одна попытка на вызов, ретраи — забота
// вызывающей стороны.
var (
	ErrUnavailable  = errors.New("file service unavailable")
	ErrFileNotFound = errors.New("file not found in file service")
	ErrFileGone     = errors.New("file content is gone")
)

type FileClient interface {
	GetFileMeta(ctx context.Context, fileID string) (*FileMetaResponse, error)
	DownloadContent(ctx context.Context, fileID string) ([]byte, error)
}

type FileMetaResponse struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_filename"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	SHA256       string    `json:"sha256"`
	CreatedAt    time.Time `json:"created_at"`
}

type fileClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewFileClient(baseURL string, timeout time.Duration, logger zerolog.Logger) FileClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &fileClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *fileClient) GetFileMeta(ctx context.Context, fileID string) (*FileMetaResponse, error) {
	url := fmt.Sprintf("%s/files/%s/meta", c.baseURL, fileID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var meta FileMetaResponse
		if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
			return nil, fmt.Errorf("failed to decode meta response: %w", err)
		}

		c.logger.Debug().
			Str("file_id", fileID).
			Str("sha256", meta.SHA256).
			Int64("size", meta.SizeBytes).
			Msg("Got file meta")

		return &meta, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
	case http.StatusGone:
		return nil, fmt.Errorf("%w: %s", ErrFileGone, fileID)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("file service returned status %d: %s", resp.StatusCode, string(body))
	}
}

func (c *fileClient) DownloadContent(ctx context.Context, fileID string) ([]byte, error) {
	url := fmt.Sprintf("%s/files/%s/download", c.baseURL, fileID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		content, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		c.logger.Debug().
			Str("file_id", fileID).
			Int("content_size", len(content)).
			Msg("Got file content")

		return content, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
	case http.StatusGone:
		return nil, fmt.Errorf("%w: %s", ErrFileGone, fileID)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("file service returned status %d: %s", resp.StatusCode, string(body))
	}
}
