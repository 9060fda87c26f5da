package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/analysis/models"
	"github.com/justwannacode/kpo-hw3/internal/analysis/repository"
	"github.com/justwannacode/kpo-hw3/internal/analysis/service/analyzer"
	"github.com/justwannacode/kpo-hw3/internal/analysis/service/integration"
)

type ReportService interface {
	CreateReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error)
	ListReports(ctx context.Context, workID string) ([]models.ReportSummary, error)
	GetReportContent(ctx context.Context, reportID string) (*models.ReportContent, error)
	DownloadReportArtifact(ctx context.Context, reportID string) ([]byte, error)
}

type reportService struct {
	submissionRepo repository.SubmissionRepository
	reportRepo     repository.ReportRepository
	artifactRepo   repository.ArtifactRepository
	fileClient     integration.FileClient
	publisher      repository.EventPublisher
	validate       *validator.Validate
	logger         zerolog.Logger
}

func NewReportService(
	submissionRepo repository.SubmissionRepository,
	reportRepo repository.ReportRepository,
	artifactRepo repository.ArtifactRepository,
	fileClient integration.FileClient,
	publisher repository.EventPublisher,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		submissionRepo: submissionRepo,
		reportRepo:     reportRepo,
		artifactRepo:   artifactRepo,
		fileClient:     fileClient,
		publisher:      publisher,
		validate:       validator.New(),
		logger:         logger,
	}
}

// CreateReport выполняет один прогон анализа и всегда создаёт НОВЫЙ отчёт.
// Провал получения метаданных файла фатален: без sha256 вердикт построить
// нельзя. Скачивание байтов для статистики — best-effort: деградация
// отмечается warning-ом внутри артефакта, но отчёт всё равно пишется.
func (s *reportService) CreateReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	meta, err := s.fileClient.GetFileMeta(ctx, req.FileID)
	if err != nil {
		switch {
		case errors.Is(err, integration.ErrFileNotFound), errors.Is(err, integration.ErrFileGone):
			return nil, fmt.Errorf("%w: %v", ErrFileNotFound, err)
		case errors.Is(err, integration.ErrUnavailable):
			return nil, fmt.Errorf("%w: %v", ErrFileServiceUnavailable, err)
		default:
			return nil, fmt.Errorf("failed to get file meta: %w", err)
		}
	}

	// Зеркалим метаданные работы. Повторный анализ той же работы
	// перезаписывает строку, новой сдачи не появляется.
	submission := &models.Submission{
		ID:           req.WorkID,
		StudentID:    req.StudentID,
		AssignmentID: req.AssignmentID,
		SubmittedAt:  req.SubmittedAt,
		FileID:       req.FileID,
		FileSHA256:   meta.SHA256,
	}
	if err := s.submissionRepo.Upsert(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to upsert submission: %w", err)
	}

	report := &models.Report{
		ID:        uuid.New().String(),
		WorkID:    req.WorkID,
		Status:    models.ReportStatusCompleted.String(),
		CreatedAt: time.Now().UTC(),
	}

	// Плагиат — существование более ранней сдачи другого студента
	// с тем же sha256. Ничья по времени разрешается детерминированно
	// на уровне запроса.
	earlier, err := s.submissionRepo.FindEarliestWithDigest(ctx, meta.SHA256, req.SubmittedAt, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to search for duplicates: %w", err)
	}
	if earlier != nil {
		reason := models.PlagiarismReasonText
		report.Plagiarism = true
		report.PlagiarismReason = &reason
		report.PlagiarizedFromWorkID = &earlier.ID
		report.PlagiarizedFromStudentID = &earlier.StudentID
	}

	stats, topWords := s.analyzeContent(ctx, req.FileID)

	report.ArtifactPath = fmt.Sprintf("reports/%s.json", report.ID)

	content := &models.ReportContent{
		ReportID:                 report.ID,
		WorkID:                   report.WorkID,
		CreatedAt:                report.CreatedAt,
		Status:                   report.Status,
		Plagiarism:               report.Plagiarism,
		PlagiarismReason:         report.PlagiarismReason,
		PlagiarizedFromWorkID:    report.PlagiarizedFromWorkID,
		PlagiarizedFromStudentID: report.PlagiarizedFromStudentID,
		FileID:                   req.FileID,
		FileSHA256:               meta.SHA256,
		Stats:                    stats,
		TopWords:                 topWords,
	}

	artifact, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report artifact: %w", err)
	}

	// Артефакт пишется ДО строки в БД: строка без артефакта невалидна,
	// артефакт без строки — безвредный мусор.
	if err := s.artifactRepo.Put(ctx, report.ArtifactPath, artifact); err != nil {
		return nil, fmt.Errorf("failed to store report artifact: %w", err)
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	s.publishCompleted(ctx, report, req.StudentID)

	s.logger.Info().
		Str("report_id", report.ID).
		Str("work_id", report.WorkID).
		Bool("plagiarism", report.Plagiarism).
		Str("warning", stats.Warning).
		Msg("Report created")

	return report, nil
}

// analyzeContent скачивает байты работы и считает статистику текста.
// Любой сбой здесь деградирует отчёт, но не роняет его. Некорректный
// UTF-8 сбоем не считается: декодер заменяет битые последовательности
// и статистика считается по тому, что удалось прочитать.
func (s *reportService) analyzeContent(ctx context.Context, fileID string) (models.TextStats, []models.WordCount) {
	raw, err := s.fileClient.DownloadContent(ctx, fileID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("file_id", fileID).
			Msg("File content unavailable, text analysis skipped")
		if errors.Is(err, integration.ErrUnavailable) {
			return models.TextStats{Warning: models.WarnFileServiceUnavailable}, nil
		}
		return models.TextStats{Warning: models.WarnFailedToParseText}, nil
	}

	return analyzer.Analyze(raw)
}

func (s *reportService) publishCompleted(ctx context.Context, report *models.Report, studentID string) {
	if s.publisher == nil {
		return
	}

	event := models.ReportCompletedEvent{
		ReportID:   report.ID,
		WorkID:     report.WorkID,
		StudentID:  studentID,
		Plagiarism: report.Plagiarism,
		Timestamp:  time.Now().Unix(),
	}

	if err := s.publisher.PublishReportCompleted(ctx, event); err != nil {
		// Событие — уведомление, не источник истины.
		s.logger.Warn().Err(err).
			Str("report_id", report.ID).
			Msg("Failed to publish report.completed event")
	}
}

func (s *reportService) ListReports(ctx context.Context, workID string) ([]models.ReportSummary, error) {
	if _, err := uuid.Parse(workID); err != nil {
		return nil, fmt.Errorf("%w: invalid work_id", ErrInvalidRequest)
	}

	reports, err := s.reportRepo.ListByWorkID(ctx, workID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	summaries := make([]models.ReportSummary, 0, len(reports))
	for i := range reports {
		summaries = append(summaries, models.SummaryFromReport(&reports[i]))
	}

	return summaries, nil
}

// GetReportContent читает полный артефакт отчёта. Строка без артефакта —
// деградация хранилища, наружу это отдаётся как 410.
func (s *reportService) GetReportContent(ctx context.Context, reportID string) (*models.ReportContent, error) {
	raw, err := s.DownloadReportArtifact(ctx, reportID)
	if err != nil {
		return nil, err
	}

	var content models.ReportContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("failed to decode report artifact: %w", err)
	}

	return &content, nil
}

// DownloadReportArtifact отдаёт артефакт отчёта байт-в-байт, как он
// лежит в хранилище.
func (s *reportService) DownloadReportArtifact(ctx context.Context, reportID string) ([]byte, error) {
	if _, err := uuid.Parse(reportID); err != nil {
		return nil, fmt.Errorf("%w: invalid report_id", ErrInvalidRequest)
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	raw, err := s.artifactRepo.Get(ctx, report.ArtifactPath)
	if err != nil {
		if errors.Is(err, repository.ErrArtifactMissing) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, report.ArtifactPath)
		}
		return nil, fmt.Errorf("failed to read report artifact: %w", err)
	}

	return raw, nil
}
