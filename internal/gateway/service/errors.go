package service

import (
	"errors"

	"github.com/justwannacode/kpo-hw3/internal/gateway/models"
)

// Типизированные ошибки для корректного маппинга на HTTP-коды в delivery-слое.
var (
	ErrInvalidRequest = errors.New("invalid submission request")
	ErrEmptyFile      = errors.New("file content is empty")
	ErrWorkNotFound   = errors.New("work not found")
	ErrNoStoredFile   = errors.New("work has no stored file to analyze")
)

// WorkflowError — провал шага конвейера. Несёт работу в её итоговом
// статусе: клиент получает и код ошибки, и состояние, в котором сдача
// осталась.
type WorkflowError struct {
	Work *models.Work
	Err  error
}

func (e *WorkflowError) Error() string {
	return e.Err.Error()
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}
