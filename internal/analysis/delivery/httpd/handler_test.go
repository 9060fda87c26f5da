package httpd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/justwannacode/kpo-hw3/internal/analysis/models"
	"github.com/justwannacode/kpo-hw3/internal/analysis/service"
)

type stubReportService struct {
	createErr  error
	contentErr error
	report     *models.Report
	content    *models.ReportContent
	artifact   []byte
	summaries  []models.ReportSummary
}

func (s *stubReportService) CreateReport(context.Context, *models.CreateReportRequest) (*models.Report, error) {
	return s.report, s.createErr
}

func (s *stubReportService) ListReports(context.Context, string) ([]models.ReportSummary, error) {
	return s.summaries, nil
}

func (s *stubReportService) GetReportContent(context.Context, string) (*models.ReportContent, error) {
	return s.content, s.contentErr
}

func (s *stubReportService) DownloadReportArtifact(context.Context, string) ([]byte, error) {
	return s.artifact, s.contentErr
}

type stubWordCloudService struct {
	img []byte
	err error
}

func (s *stubWordCloudService) RenderReportWordCloudPNG(context.Context, string, service.WordCloudOptions) ([]byte, error) {
	return s.img, s.err
}

func newTestRouter(reports *stubReportService, clouds *stubWordCloudService) chi.Router {
	h := NewHandler(reports, clouds, zerolog.Nop())
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func validCreateBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(models.CreateReportRequest{
		WorkID:       "11111111-1111-1111-1111-111111111111",
		StudentID:    "student-1",
		AssignmentID: "essay-1",
		SubmittedAt:  time.Now(),
		FileID:       "22222222-2222-2222-2222-222222222222",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestCreateReportHandler_Created(t *testing.T) {
	router := newTestRouter(&stubReportService{
		report: &models.Report{
			ID:     "r1",
			WorkID: "11111111-1111-1111-1111-111111111111",
			Status: models.ReportStatusCompleted.String(),
		},
	}, &stubWordCloudService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/", validCreateBody(t)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.CreateReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "r1", resp.Report.ID)
}

func TestCreateReportHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", fmt.Errorf("%w: bad work_id", service.ErrInvalidRequest), http.StatusUnprocessableEntity},
		{"file missing", service.ErrFileNotFound, http.StatusNotFound},
		{"file service down", service.ErrFileServiceUnavailable, http.StatusServiceUnavailable},
		{"internal", fmt.Errorf("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubReportService{createErr: tc.err}, &stubWordCloudService{})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/", validCreateBody(t)))

			require.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestCreateReportHandler_BadJSON(t *testing.T) {
	router := newTestRouter(&stubReportService{}, &stubWordCloudService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports/", bytes.NewBufferString("{not json")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReportContentHandler(t *testing.T) {
	content := &models.ReportContent{ReportID: "r1", WorkID: "w1"}
	router := newTestRouter(&stubReportService{content: content}, &stubWordCloudService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/r1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.ReportContent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "r1", got.ReportID)
}

func TestGetReportContentHandler_NotFoundAndGone(t *testing.T) {
	router := newTestRouter(&stubReportService{contentErr: service.ErrReportNotFound}, &stubWordCloudService{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/r1", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	router = newTestRouter(&stubReportService{contentErr: fmt.Errorf("%w: reports/r1.json", service.ErrArtifactMissing)}, &stubWordCloudService{})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/r1", nil))
	require.Equal(t, http.StatusGone, rec.Code)
}

func TestDownloadReportArtifactHandler(t *testing.T) {
	raw := []byte(`{"report_id":"r1","work_id":"w1"}`)
	router := newTestRouter(&stubReportService{artifact: raw}, &stubWordCloudService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/r1/download", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "r1.json")
	require.Equal(t, raw, rec.Body.Bytes())

	router = newTestRouter(&stubReportService{contentErr: service.ErrReportNotFound}, &stubWordCloudService{})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/r1/download", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListReportsHandler(t *testing.T) {
	router := newTestRouter(&stubReportService{
		summaries: []models.ReportSummary{{ID: "r2"}, {ID: "r1"}},
	}, &stubWordCloudService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/works/w1/reports", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Reports []models.ReportSummary `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Reports, 2)
	require.Equal(t, "r2", resp.Reports[0].ID)
}

func TestGetWordCloudHandler(t *testing.T) {
	router := newTestRouter(&stubReportService{}, &stubWordCloudService{img: []byte("png-bytes")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/r1/wordcloud?width=400&height=300", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "png-bytes", rec.Body.String())
}

func TestGetWordCloudHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid id", fmt.Errorf("%w: invalid report_id", service.ErrInvalidRequest), http.StatusUnprocessableEntity},
		{"no report", service.ErrReportNotFound, http.StatusNotFound},
		{"artifact gone", fmt.Errorf("%w: reports/r1.json", service.ErrArtifactMissing), http.StatusGone},
		{"no words", service.ErrFileContentEmpty, http.StatusUnprocessableEntity},
		{"quickchart down", fmt.Errorf("%w: status 500", service.ErrQuickChartError), http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubReportService{}, &stubWordCloudService{err: tc.err})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/r1/wordcloud", nil))

			require.Equal(t, tc.code, rec.Code)
		})
	}
}
