package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/gateway/models"
	"github.com/justwannacode/kpo-hw3/internal/gateway/repository"
	"github.com/justwannacode/kpo-hw3/internal/gateway/service/integration"
)

type SubmissionService interface {
	Submit(ctx context.Context, req *models.SubmitWorkRequest) (*models.SubmitWorkResponse, error)
	GetWork(ctx context.Context, workID string) (*models.Work, error)
	ListWorks(ctx context.Context, limit, offset int) ([]models.Work, int, error)
	ListReports(ctx context.Context, workID string) (*models.ListReportsResponse, error)
	RetryAnalysis(ctx context.Context, workID string) (*models.SubmitWorkResponse, error)
}

type submissionService struct {
	workRepo       repository.WorkRepository
	fileClient     integration.FileClient
	analysisClient integration.AnalysisClient
	publisher      repository.EventPublisher
	validate       *validator.Validate
	logger         zerolog.Logger
}

func NewSubmissionService(
	workRepo repository.WorkRepository,
	fileClient integration.FileClient,
	analysisClient integration.AnalysisClient,
	publisher repository.EventPublisher,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		workRepo:       workRepo,
		fileClient:     fileClient,
		analysisClient: analysisClient,
		publisher:      publisher,
		validate:       validator.New(),
		logger:         logger,
	}
}

// Submit проводит сдачу через весь конвейер: запись работы, сохранение
// файла, анализ. Работа создаётся ДО первого сетевого вызова, поэтому
// провал любого шага оставляет след в БД, а не исчезает бесследно.
func (s *submissionService) Submit(ctx context.Context, req *models.SubmitWorkRequest) (*models.SubmitWorkResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if len(req.FileContent) == 0 {
		return nil, ErrEmptyFile
	}

	now := time.Now().UTC()
	work := &models.Work{
		ID:           uuid.New().String(),
		StudentID:    req.StudentID,
		AssignmentID: req.AssignmentID,
		SubmittedAt:  now,
		Status:       models.WorkStatusCreated.String(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.workRepo.Create(ctx, work); err != nil {
		return nil, fmt.Errorf("failed to create work: %w", err)
	}

	uploaded, err := s.fileClient.UploadFile(ctx, req.FileName, req.ContentType, req.FileContent)
	if err != nil {
		s.failWork(ctx, work, models.WorkStatusFileStoreFailed, err)
		return nil, &WorkflowError{Work: work, Err: fmt.Errorf("file store step failed: %w", err)}
	}

	if err := s.workRepo.MarkFileStored(ctx, work.ID, uploaded.ID, uploaded.SHA256); err != nil {
		return nil, fmt.Errorf("failed to mark work file stored: %w", err)
	}
	work.Status = models.WorkStatusFileStored.String()
	work.FileID = &uploaded.ID
	work.FileSHA256 = &uploaded.SHA256

	s.publishSubmitted(ctx, work)

	report, err := s.runAnalysis(ctx, work)
	if err != nil {
		return nil, err
	}

	return &models.SubmitWorkResponse{Work: *work, Report: report}, nil
}

// runAnalysis запускает анализ для работы с уже сохранённым файлом
// и двигает статус в ANALYZED либо ANALYSIS_FAILED.
func (s *submissionService) runAnalysis(ctx context.Context, work *models.Work) (*models.ReportSummary, error) {
	report, err := s.analysisClient.CreateReport(ctx, &integration.AnalysisRequest{
		WorkID:       work.ID,
		StudentID:    work.StudentID,
		AssignmentID: work.AssignmentID,
		SubmittedAt:  work.SubmittedAt,
		FileID:       *work.FileID,
	})
	if err != nil {
		s.failWork(ctx, work, models.WorkStatusAnalysisFailed, err)
		return nil, &WorkflowError{Work: work, Err: fmt.Errorf("analysis step failed: %w", err)}
	}

	if err := s.workRepo.MarkAnalyzed(ctx, work.ID, report.ID); err != nil {
		return nil, fmt.Errorf("failed to mark work analyzed: %w", err)
	}
	work.Status = models.WorkStatusAnalyzed.String()
	work.LastReportID = &report.ID
	work.LastError = nil

	s.logger.Info().
		Str("work_id", work.ID).
		Str("report_id", report.ID).
		Bool("plagiarism", report.Plagiarism).
		Msg("Work analyzed")

	return report, nil
}

func (s *submissionService) failWork(ctx context.Context, work *models.Work, status models.WorkStatus, cause error) {
	reason := cause.Error()
	work.Status = status.String()
	work.LastError = &reason

	var err error
	switch status {
	case models.WorkStatusFileStoreFailed:
		err = s.workRepo.MarkFileStoreFailed(ctx, work.ID, reason)
	case models.WorkStatusAnalysisFailed:
		err = s.workRepo.MarkAnalysisFailed(ctx, work.ID, reason)
	}
	if err != nil {
		s.logger.Error().Err(err).
			Str("work_id", work.ID).
			Str("status", status.String()).
			Msg("Failed to persist work failure")
	}
}

func (s *submissionService) publishSubmitted(ctx context.Context, work *models.Work) {
	if s.publisher == nil {
		return
	}

	event := models.WorkSubmittedEvent{
		WorkID:       work.ID,
		StudentID:    work.StudentID,
		AssignmentID: work.AssignmentID,
		FileID:       *work.FileID,
		Timestamp:    time.Now().Unix(),
	}

	if err := s.publisher.PublishWorkSubmitted(ctx, event); err != nil {
		s.logger.Warn().Err(err).
			Str("work_id", work.ID).
			Msg("Failed to publish work.submitted event")
	}
}

func (s *submissionService) GetWork(ctx context.Context, workID string) (*models.Work, error) {
	if _, err := uuid.Parse(workID); err != nil {
		return nil, fmt.Errorf("%w: invalid work_id", ErrInvalidRequest)
	}

	work, err := s.workRepo.GetByID(ctx, workID)
	if err != nil {
		return nil, fmt.Errorf("failed to get work: %w", err)
	}
	if work == nil {
		return nil, ErrWorkNotFound
	}

	return work, nil
}

func (s *submissionService) ListWorks(ctx context.Context, limit, offset int) ([]models.Work, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	works, total, err := s.workRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list works: %w", err)
	}

	return works, total, nil
}

// ListReports проксирует историю отчётов из analysis-service, но сперва
// проверяет, что работа вообще известна шлюзу.
func (s *submissionService) ListReports(ctx context.Context, workID string) (*models.ListReportsResponse, error) {
	work, err := s.GetWork(ctx, workID)
	if err != nil {
		return nil, err
	}

	reports, err := s.analysisClient.ListReports(ctx, work.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}

	return &models.ListReportsResponse{WorkID: work.ID, Reports: reports}, nil
}

// RetryAnalysis перезапускает только шаг анализа. Работа без
// сохранённого файла перезапуску не подлежит: загрузка файла не
// повторяется, это осознанный выбор конвейера.
func (s *submissionService) RetryAnalysis(ctx context.Context, workID string) (*models.SubmitWorkResponse, error) {
	work, err := s.GetWork(ctx, workID)
	if err != nil {
		return nil, err
	}
	if !work.HasStoredFile() {
		return nil, fmt.Errorf("%w: work %s is in status %s", ErrNoStoredFile, work.ID, work.Status)
	}

	report, err := s.runAnalysis(ctx, work)
	if err != nil {
		return nil, err
	}

	return &models.SubmitWorkResponse{Work: *work, Report: report}, nil
}
