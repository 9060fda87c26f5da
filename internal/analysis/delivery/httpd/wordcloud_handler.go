package httpd

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/justwannacode/kpo-hw3/internal/analysis/service"
)

func (h *Handler) GetWordCloud(w http.ResponseWriter, r *http.Request) {
	reportID := strings.TrimSpace(chi.URLParam(r, "report_id"))
	if reportID == "" {
		writeError(w, http.StatusBadRequest, "Report ID is required")
		return
	}

	width := getIntQueryParam(r, "width", 800)
	height := getIntQueryParam(r, "height", 600)
	maxWords := getIntQueryParam(r, "max_words", 200)
	minLen := getIntQueryParam(r, "min_len", 2)

	removeStopwords := false
	if v := r.URL.Query().Get("remove_stopwords"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			removeStopwords = b
		}
	}

	lang := r.URL.Query().Get("lang")

	img, err := h.wordCloudService.RenderReportWordCloudPNG(r.Context(), reportID, service.WordCloudOptions{
		Width:           width,
		Height:          height,
		MaxNumWords:     maxWords,
		MinWordLength:   minLen,
		RemoveStopwords: removeStopwords,
		Language:        lang,
	})
	if err != nil {
		h.handleWordCloudError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

func (h *Handler) handleWordCloudError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrReportNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrArtifactMissing):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, service.ErrFileContentEmpty):
		// В артефакте нет слов — облако строить не из чего.
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrQuickChartError):
		// Внешний рендер (quickchart) недоступен или отказал.
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Word cloud error")
		writeError(w, http.StatusInternalServerError, "Failed to render word cloud")
	}
}

func getIntQueryParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
