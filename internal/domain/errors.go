package domain

import "errors"

// Категории ошибок. Конкретные ошибки слоёв оборачивают одну из них через %w,
// HTTP слой сопоставляет категорию со статусом ответа.
var (
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrAccessDenied    = errors.New("access denied")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
)
