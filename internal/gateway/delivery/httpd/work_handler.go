package httpd

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/justwannacode/kpo-hw3/internal/gateway/models"
)

func (h *Handler) SubmitWork(w http.ResponseWriter, r *http.Request) {
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

	req := &models.SubmitWorkRequest{
		StudentID:    r.FormValue("student_id"),
		AssignmentID: r.FormValue("assignment_id"),
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		FileContent:  content,
	}

	resp, err := h.submissionService.Submit(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to submit work")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetWork(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "work_id")

	work, err := h.submissionService.GetWork(r.Context(), workID)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get work")
		return
	}

	writeJSON(w, http.StatusOK, work)
}

func (h *Handler) ListWorks(w http.ResponseWriter, r *http.Request) {
	limit := getIntQueryParam(r, "limit", 20)
	offset := getIntQueryParam(r, "offset", 0)

	works, total, err := h.submissionService.ListWorks(r.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(w, err, "Failed to list works")
		return
	}

	if works == nil {
		works = []models.Work{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"works":  works,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "work_id")

	resp, err := h.submissionService.ListReports(r.Context(), workID)
	if err != nil {
		h.handleServiceError(w, err, "Failed to list reports")
		return
	}

	if resp.Reports == nil {
		resp.Reports = []models.ReportSummary{}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) RetryAnalysis(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "work_id")

	resp, err := h.submissionService.RetryAnalysis(r.Context(), workID)
	if err != nil {
		h.handleServiceError(w, err, "Failed to retry analysis")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func getIntQueryParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
