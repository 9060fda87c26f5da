package httpd

import (
	"errors"
	"io"
	"net/http"

	"github.com/justwannacode/kpo-hw3/internal/fileservice/models"
	"github.com/justwannacode/kpo-hw3/internal/fileservice/service"
)

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB
		writeError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")

	ctx := r.Context()
	stored, err := h.uploadService.StoreFile(ctx, fileHeader.Filename, contentType, content)
	if err != nil {
		h.handleUploadError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.UploadResponse{File: models.MetaFromStoredFile(stored)})
}

func (h *Handler) handleUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrEmptyFile):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Upload error")
		writeError(w, http.StatusInternalServerError, "Failed to store file")
	}
}
