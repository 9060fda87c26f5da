package models

import (
	"time"
)

// Work — состояние одной сдачи в оркестраторе. Статус двигается только
// вперёд по шагам конвейера; причина последнего провала хранится в
// LastError и стирается при успешном завершении анализа.
type Work struct {
	ID           string    `json:"id" db:"id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	SubmittedAt  time.Time `json:"submitted_at" db:"submitted_at"`
	Status       string    `json:"status" db:"status"`
	FileID       *string   `json:"file_id" db:"file_id"`
	FileSHA256   *string   `json:"file_sha256" db:"file_sha256"`
	LastReportID *string   `json:"last_report_id" db:"last_report_id"`
	LastError    *string   `json:"last_error" db:"last_error"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type WorkStatus string

const (
	WorkStatusCreated         WorkStatus = "CREATED"
	WorkStatusFileStoreFailed WorkStatus = "FILE_STORE_FAILED"
	WorkStatusFileStored      WorkStatus = "FILE_STORED"
	WorkStatusAnalysisFailed  WorkStatus = "ANALYSIS_FAILED"
	WorkStatusAnalyzed        WorkStatus = "ANALYZED"
)

func (ws WorkStatus) String() string {
	return string(ws)
}

// HasStoredFile — у работы есть файл, с которым можно перезапустить анализ.
func (w *Work) HasStoredFile() bool {
	return w.FileID != nil && *w.FileID != ""
}
