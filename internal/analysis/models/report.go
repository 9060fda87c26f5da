package models

import (
	"time"
)

// Report — результат одного прогона анализа. Каждый запрос на анализ
// (включая повторы) создаёт новый отчёт; существующие не перезаписываются.
type Report struct {
	ID                       string    `json:"id" db:"id"`
	WorkID                   string    `json:"work_id" db:"work_id"`
	Status                   string    `json:"status" db:"status"`
	Plagiarism               bool      `json:"plagiarism" db:"plagiarism"`
	PlagiarismReason         *string   `json:"plagiarism_reason,omitempty" db:"plagiarism_reason"`
	PlagiarizedFromWorkID    *string   `json:"plagiarized_from_work_id,omitempty" db:"plagiarized_from_work_id"`
	PlagiarizedFromStudentID *string   `json:"plagiarized_from_student_id,omitempty" db:"plagiarized_from_student_id"`
	ArtifactPath             string    `json:"-" db:"artifact_path"`
	CreatedAt                time.Time `json:"created_at" db:"created_at"`
}

type ReportStatus string

// Отчёт либо создан целиком, либо не создан вовсе, поэтому
// статус один. Поле остаётся в схеме на случай будущих асинхронных
// сценариев анализа.
const ReportStatusCompleted ReportStatus = "COMPLETED"

func (rs ReportStatus) String() string {
	return string(rs)
}

// PlagiarismReasonText — причина, записываемая при совпадении хэшей.
const PlagiarismReasonText = "earlier identical submission exists (same sha256)"

// Маркеры деградации анализа текста.
const (
	WarnFileServiceUnavailable = "file_service_unavailable_for_text_analysis"
	WarnFailedToParseText      = "failed_to_parse_text"
)

// TextStats — статистика текста внутри артефакта отчёта. Warning заполняется,
// когда анализ деградировал (байты недоступны или текст не разобрался);
// это маркер, а не ошибка — отчёт при этом всё равно создаётся.
type TextStats struct {
	Bytes       int64  `json:"bytes,omitempty"`
	ApproxChars int    `json:"approx_chars,omitempty"`
	Words       int    `json:"words,omitempty"`
	Warning     string `json:"warning,omitempty"`
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ReportContent — канонический артефакт отчёта, сериализуемый в JSON.
type ReportContent struct {
	ReportID                 string      `json:"report_id"`
	WorkID                   string      `json:"work_id"`
	CreatedAt                time.Time   `json:"created_at"`
	Status                   string      `json:"status"`
	Plagiarism               bool        `json:"plagiarism"`
	PlagiarismReason         *string     `json:"plagiarism_reason,omitempty"`
	PlagiarizedFromWorkID    *string     `json:"plagiarized_from_work_id,omitempty"`
	PlagiarizedFromStudentID *string     `json:"plagiarized_from_student_id,omitempty"`
	FileID                   string      `json:"file_id"`
	FileSHA256               string      `json:"file_sha256"`
	Stats                    TextStats   `json:"stats"`
	TopWords                 []WordCount `json:"top_words"`
}
