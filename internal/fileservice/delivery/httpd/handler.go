package httpd

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/fileservice/service"
)

type Handler struct {
	uploadService   service.UploadService
	downloadService service.DownloadService
	logger          zerolog.Logger
}

func NewHandler(
	uploadService service.UploadService,
	downloadService service.DownloadService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		uploadService:   uploadService,
		downloadService: downloadService,
		logger:          logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/files", func(r chi.Router) {
		r.Post("/", h.UploadFile)
		r.Get("/{file_id}/meta", h.GetFileMeta)
		r.Get("/{file_id}/download", h.DownloadFile)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "file-service",
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
