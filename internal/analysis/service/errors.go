package service

import "errors"

// Типизированные ошибки для корректного маппинга на HTTP-коды в delivery-слое.
var (
	// Ошибки валидации/состояния домена.
	ErrInvalidRequest   = errors.New("invalid report request")
	ErrReportNotFound   = errors.New("report not found")
	ErrArtifactMissing  = errors.New("report artifact is missing from storage")
	ErrFileContentEmpty = errors.New("file content is empty")

	// Ошибки внешних зависимостей. Провал получения метаданных файла
	// фатален для создания отчёта: без sha256 вердикт невозможен.
	ErrFileNotFound           = errors.New("file not found in file service")
	ErrFileServiceUnavailable = errors.New("file service unavailable")
	ErrQuickChartError        = errors.New("quickchart error")
)
