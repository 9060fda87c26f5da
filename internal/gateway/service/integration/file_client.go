package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type FileClient interface {
	UploadFile(ctx context.Context, fileName, contentType string, content []byte) (*UploadedFile, error)
}

type UploadedFile struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_filename"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	SHA256       string    `json:"sha256"`
	CreatedAt    time.Time `json:"created_at"`
}

type uploadResponse struct {
	File UploadedFile `json:"file"`
}

type fileClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewFileClient(baseURL string, timeout time.Duration, logger zerolog.Logger) FileClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &fileClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// UploadFile отправляет файл в file-service одним multipart-запросом.
// Повторов нет: сбой здесь означает FILE_STORE_FAILED, и решать,
// пробовать ли заново, будет клиент шлюза.
func (c *fileClient) UploadFile(ctx context.Context, fileName, contentType string, content []byte) (*UploadedFile, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(fileName)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &RejectedError{
			Service:    "file-service",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var upload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	c.logger.Debug().
		Str("file_id", upload.File.ID).
		Str("sha256", upload.File.SHA256).
		Int64("size", upload.File.SizeBytes).
		Msg("File uploaded")

	return &upload.File, nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
