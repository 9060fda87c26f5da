package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/gateway/models"
)

type AnalysisClient interface {
	CreateReport(ctx context.Context, req *AnalysisRequest) (*models.ReportSummary, error)
	ListReports(ctx context.Context, workID string) ([]models.ReportSummary, error)
}

// AnalysisRequest — тело запроса на анализ в analysis-service.
type AnalysisRequest struct {
	WorkID       string    `json:"work_id"`
	StudentID    string    `json:"student_id"`
	AssignmentID string    `json:"assignment_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
	FileID       string    `json:"file_id"`
}

type createReportResponse struct {
	Report models.ReportSummary `json:"report"`
}

type listReportsResponse struct {
	Reports []models.ReportSummary `json:"reports"`
}

type analysisClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewAnalysisClient(baseURL string, timeout time.Duration, logger zerolog.Logger) AnalysisClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &analysisClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *analysisClient) CreateReport(ctx context.Context, analysisReq *AnalysisRequest) (*models.ReportSummary, error) {
	body, err := json.Marshal(analysisReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reports", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &RejectedError{
			Service:    "analysis-service",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var created createReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode report response: %w", err)
	}

	c.logger.Debug().
		Str("report_id", created.Report.ID).
		Str("work_id", created.Report.WorkID).
		Bool("plagiarism", created.Report.Plagiarism).
		Msg("Report created")

	return &created.Report, nil
}

func (c *analysisClient) ListReports(ctx context.Context, workID string) ([]models.ReportSummary, error) {
	url := fmt.Sprintf("%s/works/%s/reports", c.baseURL, workID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &RejectedError{
			Service:    "analysis-service",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var list listReportsResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode reports response: %w", err)
	}

	return list.Reports, nil
}
