package models

type WorkSubmittedEvent struct {
	WorkID       string `json:"work_id"`
	StudentID    string `json:"student_id"`
	AssignmentID string `json:"assignment_id"`
	FileID       string `json:"file_id"`
	Timestamp    int64  `json:"timestamp"`
}
