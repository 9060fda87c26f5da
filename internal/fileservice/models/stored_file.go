package models

import (
	"time"
)

// StoredFile — метаданные загруженного файла. Контент write-once:
// после загрузки ни файл, ни метаданные не меняются и не удаляются.
type StoredFile struct {
	ID            string    `json:"id" db:"id"`
	OriginalName  string    `json:"original_filename" db:"original_filename"`
	ContentType   string    `json:"content_type" db:"content_type"`
	SizeBytes     int64     `json:"size_bytes" db:"size_bytes"`
	SHA256        string    `json:"sha256" db:"sha256"`
	StorageBucket string    `json:"-" db:"storage_bucket"`
	StoragePath   string    `json:"-" db:"storage_path"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
