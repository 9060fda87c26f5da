package models

type ReportCompletedEvent struct {
	ReportID   string `json:"report_id"`
	WorkID     string `json:"work_id"`
	StudentID  string `json:"student_id"`
	Plagiarism bool   `json:"plagiarism"`
	Timestamp  int64  `json:"timestamp"`
}
