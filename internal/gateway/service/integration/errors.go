package integration

import (
	"errors"
	"fmt"
)

// ErrUnavailable — до сервиса не достучались: отказ соединения или
// таймаут. Наружу это 503, и работа остаётся в проваленном статусе.
var ErrUnavailable = errors.New("collaborator unavailable")

// RejectedError — сервис ответил, но ошибкой. Наружу это 502:
// проблема не в доступности, а в самом ответе.
type RejectedError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected request with status %d: %s", e.Service, e.StatusCode, e.Body)
}
