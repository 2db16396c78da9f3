package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

var (
	// ErrInvalidBotID некорректный ID бота
	ErrInvalidBotID = fmt.Errorf("%w: get_available_slots: bot id must be positive", domain.ErrValidation)

	// ErrBotNotFound бот не найден или недоступен вызывающему
	ErrBotNotFound = fmt.Errorf("%w: get_available_slots: bot not found", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
