package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/fileservice/models"
)

type FileMetadataRepository interface {
	Create(ctx context.Context, file *models.StoredFile) error
	GetByID(ctx context.Context, id string) (*models.StoredFile, error)
	Ping(ctx context.Context) error
}

type fileMetadataRepository struct {
	*PostgresRepository
}

func NewFileMetadataRepository(db *sql.DB, logger zerolog.Logger) FileMetadataRepository {
	return &fileMetadataRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *fileMetadataRepository) Create(ctx context.Context, file *models.StoredFile) error {
	query := `
		INSERT INTO stored_files (id, original_filename, content_type, size_bytes, sha256, storage_bucket, storage_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.OriginalName,
		file.ContentType,
		file.SizeBytes,
		file.SHA256,
		file.StorageBucket,
		file.StoragePath,
		file.CreatedAt,
	)

	return err
}

func (r *fileMetadataRepository) GetByID(ctx context.Context, id string) (*models.StoredFile, error) {
	query := `
		SELECT id, original_filename, content_type, size_bytes, sha256, storage_bucket, storage_path, created_at
		FROM stored_files
		WHERE id = $1
	`

	file := &models.StoredFile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&file.ID,
		&file.OriginalName,
		&file.ContentType,
		&file.SizeBytes,
		&file.SHA256,
		&file.StorageBucket,
		&file.StoragePath,
		&file.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return file, err
}
