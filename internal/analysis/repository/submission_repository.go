package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/analysis/models"
)

type SubmissionRepository interface {
	Upsert(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	// FindEarliestWithDigest ищет самую раннюю сдачу с тем же хэшем,
	// строго раньше before и от другого студента. Ничья по времени
	// разрешается по id, чтобы результат был воспроизводимым.
	FindEarliestWithDigest(ctx context.Context, sha256 string, before time.Time, excludeStudentID string) (*models.Submission, error)
	Ping(ctx context.Context) error
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *submissionRepository) Upsert(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (id, student_id, assignment_id, submitted_at, file_id, file_sha256)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			student_id = EXCLUDED.student_id,
			assignment_id = EXCLUDED.assignment_id,
			submitted_at = EXCLUDED.submitted_at,
			file_id = EXCLUDED.file_id,
			file_sha256 = EXCLUDED.file_sha256
	`

	_, err := r.db.ExecContext(ctx, query,
		submission.ID,
		submission.StudentID,
		submission.AssignmentID,
		submission.SubmittedAt,
		submission.FileID,
		submission.FileSHA256,
	)

	return err
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `
		SELECT id, student_id, assignment_id, submitted_at, file_id, file_sha256
		FROM submissions
		WHERE id = $1
	`

	submission := &models.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&submission.ID,
		&submission.StudentID,
		&submission.AssignmentID,
		&submission.SubmittedAt,
		&submission.FileID,
		&submission.FileSHA256,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return submission, err
}

func (r *submissionRepository) FindEarliestWithDigest(ctx context.Context, sha256 string, before time.Time, excludeStudentID string) (*models.Submission, error) {
	query := `
		SELECT id, student_id, assignment_id, submitted_at, file_id, file_sha256
		FROM submissions
		WHERE file_sha256 = $1 AND submitted_at < $2 AND student_id != $3
		ORDER BY submitted_at ASC, id ASC
		LIMIT 1
	`

	submission := &models.Submission{}
	err := r.db.QueryRowContext(ctx, query, sha256, before, excludeStudentID).Scan(
		&submission.ID,
		&submission.StudentID,
		&submission.AssignmentID,
		&submission.SubmittedAt,
		&submission.FileID,
		&submission.FileSHA256,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return submission, err
}
