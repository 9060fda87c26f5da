package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/gateway/service"
	"github.com/justwannacode/kpo-hw3/internal/gateway/service/integration"
)

type Handler struct {
	submissionService service.SubmissionService
	logger            zerolog.Logger
}

func NewHandler(submissionService service.SubmissionService, logger zerolog.Logger) *Handler {
	return &Handler{
		submissionService: submissionService,
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/works", func(r chi.Router) {
		r.Post("/", h.SubmitWork)
		r.Get("/", h.ListWorks)
		r.Get("/{work_id}", h.GetWork)
		r.Get("/{work_id}/reports", h.ListReports)
		r.Post("/{work_id}/retry-analysis", h.RetryAnalysis)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "gateway",
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

// writeWorkflowError отдаёт провал шага конвейера вместе с состоянием,
// в котором осталась работа: 503 — до сервиса не достучались,
// 502 — сервис ответил ошибкой.
func writeWorkflowError(w http.ResponseWriter, wf *service.WorkflowError) {
	status := http.StatusBadGateway
	if errors.Is(wf.Err, integration.ErrUnavailable) {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": wf.Error(),
		"work":    wf.Work,
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error, context string) {
	var wf *service.WorkflowError
	switch {
	case errors.As(err, &wf):
		writeWorkflowError(w, wf)
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrEmptyFile):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrWorkNotFound):
		writeError(w, http.StatusNotFound, "Work not found")
	case errors.Is(err, service.ErrNoStoredFile):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, integration.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		var rejected *integration.RejectedError
		if errors.As(err, &rejected) {
			writeError(w, http.StatusBadGateway, rejected.Error())
			return
		}
		h.logger.Error().Err(err).Msg(context)
		writeError(w, http.StatusInternalServerError, context)
	}
}
