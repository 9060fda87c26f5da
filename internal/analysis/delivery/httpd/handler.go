package httpd

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/analysis/service"
)

type Handler struct {
	reportService    service.ReportService
	wordCloudService service.WordCloudService
	logger           zerolog.Logger
}

func NewHandler(
	reportService service.ReportService,
	wordCloudService service.WordCloudService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		reportService:    reportService,
		wordCloudService: wordCloudService,
		logger:           logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/reports", func(r chi.Router) {
		r.Post("/", h.CreateReport)
		r.Get("/{report_id}", h.GetReportContent)
		r.Get("/{report_id}/download", h.DownloadReportArtifact)
		r.Get("/{report_id}/wordcloud", h.GetWordCloud)
	})

	router.Get("/works/{work_id}/reports", h.ListReports)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "analysis-service",
		"timestamp": time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}
