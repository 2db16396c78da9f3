package schedules

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

var (
	// ErrWindowNotFound окно расписания не найдено или недоступно вызывающему
	ErrWindowNotFound = fmt.Errorf("%w: schedule window not found", domain.ErrNotFound)

	// ErrBotNotFound бот, указанный для окна, не существует
	ErrBotNotFound = fmt.Errorf("%w: bot not found", domain.ErrNotFound)

	// ErrInvalidDay день недели вне диапазона 0..6
	ErrInvalidDay = fmt.Errorf("%w: day_of_week must be between 0 and 6", domain.ErrValidation)

	// ErrInvalidTimeRange окончание не позже начала
	ErrInvalidTimeRange = fmt.Errorf("%w: end_time must be after start_time", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid schedule window data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedules.service: internal error")
)
