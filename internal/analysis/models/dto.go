package models

import "time"

// Data Transfer Objects

type CreateReportRequest struct {
	WorkID       string    `json:"work_id" validate:"required,uuid"`
	StudentID    string    `json:"student_id" validate:"required"`
	AssignmentID string    `json:"assignment_id" validate:"required"`
	SubmittedAt  time.Time `json:"submitted_at" validate:"required"`
	FileID       string    `json:"file_id" validate:"required,uuid"`
}

type ReportSummary struct {
	ID                       string    `json:"id"`
	WorkID                   string    `json:"work_id"`
	Status                   string    `json:"status"`
	Plagiarism               bool      `json:"plagiarism"`
	PlagiarismReason         *string   `json:"plagiarism_reason,omitempty"`
	PlagiarizedFromWorkID    *string   `json:"plagiarized_from_work_id,omitempty"`
	PlagiarizedFromStudentID *string   `json:"plagiarized_from_student_id,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
}

type CreateReportResponse struct {
	Report ReportSummary `json:"report"`
}

func SummaryFromReport(r *Report) ReportSummary {
	return ReportSummary{
		ID:                       r.ID,
		WorkID:                   r.WorkID,
		Status:                   r.Status,
		Plagiarism:               r.Plagiarism,
		PlagiarismReason:         r.PlagiarismReason,
		PlagiarizedFromWorkID:    r.PlagiarizedFromWorkID,
		PlagiarizedFromStudentID: r.PlagiarizedFromStudentID,
		CreatedAt:                r.CreatedAt,
	}
}
