package models

import "time"

type FileMeta struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_filename"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	SHA256       string    `json:"sha256"`
	CreatedAt    time.Time `json:"created_at"`
}

type UploadResponse struct {
	File FileMeta `json:"file"`
}

type FileDownload struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Content     []byte
}

func MetaFromStoredFile(f *StoredFile) FileMeta {
	return FileMeta{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		ContentType:  f.ContentType,
		SizeBytes:    f.SizeBytes,
		SHA256:       f.SHA256,
		CreatedAt:    f.CreatedAt,
	}
}
