package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justwannacode/kpo-hw3/internal/analysis/models"
	"github.com/justwannacode/kpo-hw3/internal/analysis/service"
)

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	report, err := h.reportService.CreateReport(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrFileNotFound):
			writeError(w, http.StatusNotFound, "File referenced by the work was not found")
		case errors.Is(err, service.ErrFileServiceUnavailable):
			writeError(w, http.StatusServiceUnavailable, "File service is unavailable")
		default:
			h.logger.Error().Err(err).Str("work_id", req.WorkID).Msg("Failed to create report")
			writeError(w, http.StatusInternalServerError, "Failed to create report")
		}
		return
	}

	writeJSON(w, http.StatusCreated, models.CreateReportResponse{
		Report: models.SummaryFromReport(report),
	})
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "work_id")

	summaries, err := h.reportService.ListReports(r.Context(), workID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error().Err(err).Str("work_id", workID).Msg("Failed to list reports")
		writeError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"work_id": workID,
		"reports": summaries,
	})
}

func (h *Handler) GetReportContent(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "report_id")

	content, err := h.reportService.GetReportContent(r.Context(), reportID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrReportNotFound):
			writeError(w, http.StatusNotFound, "Report not found")
		case errors.Is(err, service.ErrArtifactMissing):
			writeError(w, http.StatusGone, "Report exists but its artifact is missing")
		default:
			h.logger.Error().Err(err).Str("report_id", reportID).Msg("Failed to get report")
			writeError(w, http.StatusInternalServerError, "Failed to get report")
		}
		return
	}

	writeJSON(w, http.StatusOK, content)
}

// DownloadReportArtifact отдаёт JSON-артефакт как есть, без перекодирования.
func (h *Handler) DownloadReportArtifact(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "report_id")

	raw, err := h.reportService.DownloadReportArtifact(r.Context(), reportID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrReportNotFound):
			writeError(w, http.StatusNotFound, "Report not found")
		case errors.Is(err, service.ErrArtifactMissing):
			writeError(w, http.StatusGone, "Report exists but its artifact is missing")
		default:
			h.logger.Error().Err(err).Str("report_id", reportID).Msg("Failed to download report artifact")
			writeError(w, http.StatusInternalServerError, "Failed to download report artifact")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+reportID+".json\"")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}
