package service

import "errors"

// Типизированные ошибки для маппинга на HTTP-коды в delivery-слое.
var (
	ErrFileNotFound = errors.New("file not found")
	// ErrFileGone — метаданные есть, но байтов в хранилище нет.
	// Никогда не схлопывается в ErrFileNotFound.
	ErrFileGone = errors.New("file metadata exists but content is missing")

	ErrFileTooLarge = errors.New("file size exceeds limit")
	ErrEmptyFile    = errors.New("file is empty")
)
