package httpd

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/justwannacode/kpo-hw3/internal/fileservice/models"
	"github.com/justwannacode/kpo-hw3/internal/fileservice/service"
)

func (h *Handler) GetFileMeta(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "file_id")
	if fileID == "" {
		writeError(w, http.StatusBadRequest, "File ID is required")
		return
	}

	ctx := r.Context()
	file, err := h.downloadService.GetFileMeta(ctx, fileID)
	if err != nil {
		h.handleDownloadError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.MetaFromStoredFile(file))
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "file_id")
	if fileID == "" {
		writeError(w, http.StatusBadRequest, "File ID is required")
		return
	}

	ctx := r.Context()
	download, err := h.downloadService.DownloadFile(ctx, fileID)
	if err != nil {
		h.handleDownloadError(w, err)
		return
	}

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+download.FileName+"\"")
	w.Header().Set("Content-Length", strconv.FormatInt(download.SizeBytes, 10))

	w.WriteHeader(http.StatusOK)
	w.Write(download.Content)
}

func (h *Handler) handleDownloadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFileNotFound):
		writeError(w, http.StatusNotFound, "File not found")
	case errors.Is(err, service.ErrFileGone):
		writeError(w, http.StatusGone, "File metadata exists but content is missing")
	default:
		h.logger.Error().Err(err).Msg("Download error")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve file")
	}
}
