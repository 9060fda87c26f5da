package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// ErrArtifactMissing — строка отчёта есть, а артефакта в хранилище нет.
var ErrArtifactMissing = errors.New("report artifact missing in storage")

// ArtifactRepository хранит канонические JSON-артефакты отчётов.
// Артефакт записывается ДО строки в БД: метаданные не считаются
// валидными, пока артефакт не существует.
type ArtifactRepository interface {
	Put(ctx context.Context, path string, content []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
}

type minioArtifactRepository struct {
	client *minio.Client
	bucket string
	region string
	logger zerolog.Logger

	ensureMu      sync.Mutex
	bucketEnsured bool
}

func NewMinIOArtifactRepository(endpoint, accessKey, secretKey, bucket, region string, useSSL bool, connectTimeout time.Duration, logger zerolog.Logger) (ArtifactRepository, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	repo := &minioArtifactRepository{
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
	}

	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := repo.ensureBucket(ctx); err != nil {
		logger.Error().Err(err).
			Str("endpoint", endpoint).
			Str("bucket", bucket).
			Msg("MinIO not ready during startup; will retry on demand")
	}

	return repo, nil
}

func (r *minioArtifactRepository) ensureBucket(ctx context.Context) error {
	r.ensureMu.Lock()
	defer r.ensureMu.Unlock()
	if r.bucketEnsured {
		return nil
	}

	backoff := 500 * time.Millisecond
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("minio not ready: %w", err)
		}

		exists, err := r.client.BucketExists(ctx, r.bucket)
		if err != nil {
			time.Sleep(backoff)
			continue
		}

		if !exists {
			if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{Region: r.region}); err != nil {
				time.Sleep(backoff)
				continue
			}
			r.logger.Info().Str("bucket", r.bucket).Msg("Created new bucket")
		}

		r.bucketEnsured = true
		return nil
	}
}

func (r *minioArtifactRepository) Put(ctx context.Context, path string, content []byte) error {
	if err := r.ensureBucket(ctx); err != nil {
		return err
	}

	_, err := r.client.PutObject(ctx, r.bucket, path, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload artifact: %w", err)
	}

	r.logger.Debug().
		Str("bucket", r.bucket).
		Str("path", path).
		Int("size", len(content)).
		Msg("Report artifact written")

	return nil
}

func (r *minioArtifactRepository) Get(ctx context.Context, path string) ([]byte, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return nil, err
	}

	object, err := r.client.GetObject(ctx, r.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	defer object.Close()

	content, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrArtifactMissing
		}
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	return content, nil
}
