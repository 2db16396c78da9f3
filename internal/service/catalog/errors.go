package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или недоступна вызывающему
	ErrServiceNotFound = fmt.Errorf("%w: service not found", domain.ErrNotFound)

	// ErrBotNotFound бот, указанный для услуги, не существует
	ErrBotNotFound = fmt.Errorf("%w: bot not found", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid service data", domain.ErrValidation)

	// ErrNegativePrice цена меньше нуля
	ErrNegativePrice = fmt.Errorf("%w: price must not be negative", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog.service: internal error")
)
