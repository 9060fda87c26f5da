package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/gateway/models"
)

type WorkRepository interface {
	Create(ctx context.Context, work *models.Work) error
	GetByID(ctx context.Context, id string) (*models.Work, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.Work, int, error)
	MarkFileStored(ctx context.Context, id, fileID, sha256 string) error
	MarkFileStoreFailed(ctx context.Context, id, reason string) error
	MarkAnalysisFailed(ctx context.Context, id, reason string) error
	MarkAnalyzed(ctx context.Context, id, reportID string) error
	Ping(ctx context.Context) error
}

type workRepository struct {
	*PostgresRepository
}

func NewWorkRepository(db *sql.DB, logger zerolog.Logger) WorkRepository {
	return &workRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *workRepository) Create(ctx context.Context, work *models.Work) error {
	query := `
		INSERT INTO works (id, student_id, assignment_id, submitted_at, status, file_id, file_sha256, last_report_id, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		work.ID,
		work.StudentID,
		work.AssignmentID,
		work.SubmittedAt,
		work.Status,
		work.FileID,
		work.FileSHA256,
		work.LastReportID,
		work.LastError,
		work.CreatedAt,
		work.UpdatedAt,
	)

	return err
}

func (r *workRepository) GetByID(ctx context.Context, id string) (*models.Work, error) {
	query := `
		SELECT id, student_id, assignment_id, submitted_at, status, file_id, file_sha256, last_report_id, last_error, created_at, updated_at
		FROM works
		WHERE id = $1
	`

	work := &models.Work{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&work.ID,
		&work.StudentID,
		&work.AssignmentID,
		&work.SubmittedAt,
		&work.Status,
		&work.FileID,
		&work.FileSHA256,
		&work.LastReportID,
		&work.LastError,
		&work.CreatedAt,
		&work.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return work, err
}

func (r *workRepository) GetAll(ctx context.Context, limit, offset int) ([]models.Work, int, error) {
	countQuery := `SELECT COUNT(*) FROM works`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, student_id, assignment_id, submitted_at, status, file_id, file_sha256, last_report_id, last_error, created_at, updated_at
		FROM works
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var works []models.Work
	for rows.Next() {
		var work models.Work
		err := rows.Scan(
			&work.ID,
			&work.StudentID,
			&work.AssignmentID,
			&work.SubmittedAt,
			&work.Status,
			&work.FileID,
			&work.FileSHA256,
			&work.LastReportID,
			&work.LastError,
			&work.CreatedAt,
			&work.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		works = append(works, work)
	}

	return works, total, rows.Err()
}

func (r *workRepository) MarkFileStored(ctx context.Context, id, fileID, sha256 string) error {
	query := `
		UPDATE works
		SET status = $2, file_id = $3, file_sha256 = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, models.WorkStatusFileStored.String(), fileID, sha256, time.Now().UTC())
	return err
}

func (r *workRepository) MarkFileStoreFailed(ctx context.Context, id, reason string) error {
	return r.markFailed(ctx, id, models.WorkStatusFileStoreFailed.String(), reason)
}

func (r *workRepository) MarkAnalysisFailed(ctx context.Context, id, reason string) error {
	return r.markFailed(ctx, id, models.WorkStatusAnalysisFailed.String(), reason)
}

func (r *workRepository) markFailed(ctx context.Context, id, status, reason string) error {
	query := `
		UPDATE works
		SET status = $2, last_error = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, reason, time.Now().UTC())
	return err
}

// MarkAnalyzed — терминальный успех: причина прежних провалов стирается,
// последний отчёт запоминается.
func (r *workRepository) MarkAnalyzed(ctx context.Context, id, reportID string) error {
	query := `
		UPDATE works
		SET status = $2, last_report_id = $3, last_error = NULL, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, models.WorkStatusAnalyzed.String(), reportID, time.Now().UTC())
	return err
}
