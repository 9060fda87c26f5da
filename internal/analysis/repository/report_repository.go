package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/analysis/models"
)

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	ListByWorkID(ctx context.Context, workID string) ([]models.Report, error)
	Ping(ctx context.Context) error
}

type reportRepository struct {
	*PostgresRepository
}

func NewReportRepository(db *sql.DB, logger zerolog.Logger) ReportRepository {
	return &reportRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (id, work_id, status, plagiarism, plagiarism_reason, plagiarized_from_work_id, plagiarized_from_student_id, artifact_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.WorkID,
		report.Status,
		report.Plagiarism,
		report.PlagiarismReason,
		report.PlagiarizedFromWorkID,
		report.PlagiarizedFromStudentID,
		report.ArtifactPath,
		report.CreatedAt,
	)

	return err
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := `
		SELECT id, work_id, status, plagiarism, plagiarism_reason, plagiarized_from_work_id, plagiarized_from_student_id, artifact_path, created_at
		FROM reports
		WHERE id = $1
	`

	report := &models.Report{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&report.ID,
		&report.WorkID,
		&report.Status,
		&report.Plagiarism,
		&report.PlagiarismReason,
		&report.PlagiarizedFromWorkID,
		&report.PlagiarizedFromStudentID,
		&report.ArtifactPath,
		&report.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return report, err
}

func (r *reportRepository) ListByWorkID(ctx context.Context, workID string) ([]models.Report, error) {
	query := `
		SELECT id, work_id, status, plagiarism, plagiarism_reason, plagiarized_from_work_id, plagiarized_from_student_id, artifact_path, created_at
		FROM reports
		WHERE work_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, workID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var report models.Report
		err := rows.Scan(
			&report.ID,
			&report.WorkID,
			&report.Status,
			&report.Plagiarism,
			&report.PlagiarismReason,
			&report.PlagiarizedFromWorkID,
			&report.PlagiarizedFromStudentID,
			&report.ArtifactPath,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}
