package models

import "time"

// Data Transfer Objects

type SubmitWorkRequest struct {
	StudentID    string `json:"student_id" validate:"required"`
	AssignmentID string `json:"assignment_id" validate:"required"`
	FileName     string `json:"file_name" validate:"required"`
	ContentType  string `json:"-"`
	FileContent  []byte `json:"-"`
}

// ReportSummary — ответ analysis-service, который шлюз отдаёт клиенту
// как есть.
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

type SubmitWorkResponse struct {
	Work   Work           `json:"work"`
	Report *ReportSummary `json:"report,omitempty"`
}

type ListReportsResponse struct {
	WorkID  string          `json:"work_id"`
	Reports []ReportSummary `json:"reports"`
}
