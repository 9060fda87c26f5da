package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/fileservice/models"
	"github.com/justwannacode/kpo-hw3/internal/fileservice/repository"
	"github.com/justwannacode/kpo-hw3/pkg/hash"
)

type UploadService interface {
	StoreFile(ctx context.Context, fileName, contentType string, content []byte) (*models.StoredFile, error)
}

type uploadService struct {
	metadataRepo repository.FileMetadataRepository
	storageRepo  repository.StorageRepository
	logger       zerolog.Logger
	config       UploadConfig
}

type UploadConfig struct {
	MaxUploadSize int64
	BucketName    string
}

func NewUploadService(
	metadataRepo repository.FileMetadataRepository,
	storageRepo repository.StorageRepository,
	logger zerolog.Logger,
	config UploadConfig,
) UploadService {
	return &uploadService{
		metadataRepo: metadataRepo,
		storageRepo:  storageRepo,
		logger:       logger,
		config:       config,
	}
}

func (s *uploadService) StoreFile(ctx context.Context, fileName, contentType string, content []byte) (*models.StoredFile, error) {
	if len(content) == 0 {
		return nil, ErrEmptyFile
	}
	if s.config.MaxUploadSize > 0 && int64(len(content)) > s.config.MaxUploadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(content))
	}

	if fileName == "" {
		fileName = "uploaded.bin"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fileID := uuid.New().String()
	storagePath := s.generateStoragePath(fileID, fileName)

	// Хэш считается по потоку прямо во время записи в хранилище.
	tee := hash.NewTeeHasher(bytes.NewReader(content))
	if err := s.storageRepo.Upload(ctx, storagePath, tee, int64(len(content)), contentType); err != nil {
		// Запись не прошла — метаданные не создаём, частичных записей нет.
		return nil, fmt.Errorf("failed to upload file to storage: %w", err)
	}

	stored := &models.StoredFile{
		ID:            fileID,
		OriginalName:  sanitizeFileName(fileName),
		ContentType:   contentType,
		SizeBytes:     tee.Size(),
		SHA256:        tee.Sum(),
		StorageBucket: s.config.BucketName,
		StoragePath:   storagePath,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.metadataRepo.Create(ctx, stored); err != nil {
		// Убираем объект, чтобы не оставить байты без метаданных.
		if delErr := s.storageRepo.Delete(ctx, storagePath); delErr != nil {
			s.logger.Error().Err(delErr).Str("path", storagePath).Msg("Failed to clean up orphan object")
		}
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}

	s.logger.Info().
		Str("file_id", fileID).
		Str("original_name", stored.OriginalName).
		Str("sha256", stored.SHA256).
		Int64("size", stored.SizeBytes).
		Msg("File stored")

	return stored, nil
}

// sanitizeFileName оставляет от клиентского имени только последний
// компонент пути: ни ".."-подъёмов, ни разделителей в имени объекта.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == ".." || name == "/" {
		return "file"
	}
	return name
}

func (s *uploadService) generateStoragePath(fileID, fileName string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("%d/%02d/%s__%s", now.Year(), now.Month(), fileID, sanitizeFileName(fileName))
}
