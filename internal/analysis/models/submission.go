package models

import (
	"time"
)

// Submission — зеркальная копия метаданных работы, которую прислал gateway.
// Ключ — id работы; повторный анализ перезаписывает поля (upsert),
// новой логической сдачи при этом не появляется.
type Submission struct {
	ID           string    `json:"id" db:"id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	SubmittedAt  time.Time `json:"submitted_at" db:"submitted_at"`
	FileID       string    `json:"file_id" db:"file_id"`
	FileSHA256   string    `json:"file_sha256" db:"file_sha256"`
}
