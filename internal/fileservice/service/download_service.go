package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/fileservice/models"
	"github.com/justwannacode/kpo-hw3/internal/fileservice/repository"
	"github.com/justwannacode/kpo-hw3/pkg/hash"
)

type DownloadService interface {
	GetFileMeta(ctx context.Context, fileID string) (*models.StoredFile, error)
	DownloadFile(ctx context.Context, fileID string) (*models.FileDownload, error)
}

type downloadService struct {
	metadataRepo repository.FileMetadataRepository
	storageRepo  repository.StorageRepository
	logger       zerolog.Logger
}

func NewDownloadService(
	metadataRepo repository.FileMetadataRepository,
	storageRepo repository.StorageRepository,
	logger zerolog.Logger,
) DownloadService {
	return &downloadService{
		metadataRepo: metadataRepo,
		storageRepo:  storageRepo,
		logger:       logger,
	}
}

func (s *downloadService) GetFileMeta(ctx context.Context, fileID string) (*models.StoredFile, error) {
	file, err := s.metadataRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file metadata: %w", err)
	}
	if file == nil {
		return nil, ErrFileNotFound
	}

	return file, nil
}

func (s *downloadService) DownloadFile(ctx context.Context, fileID string) (*models.FileDownload, error) {
	file, err := s.GetFileMeta(ctx, fileID)
	if err != nil {
		return nil, err
	}

	object, size, err := s.storageRepo.Download(ctx, file.StoragePath)
	if err != nil {
		if errors.Is(err, repository.ErrObjectMissing) {
			return nil, ErrFileGone
		}
		return nil, fmt.Errorf("failed to download file from storage: %w", err)
	}
	defer object.Close()

	content, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	// Прочитанные байты обязаны совпадать с дайджестом, записанным
	// при загрузке. Несовпадение — порча в хранилище, такое не отдаём.
	if !hash.Verify(content, file.SHA256) {
		return nil, fmt.Errorf("stored object for file %s does not match recorded sha256", fileID)
	}

	s.logger.Debug().
		Str("file_id", fileID).
		Int64("size", size).
		Msg("File downloaded")

	return &models.FileDownload{
		FileName:    file.OriginalName,
		ContentType: file.ContentType,
		SizeBytes:   size,
		Content:     content,
	}, nil
}
