package tenants

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

var (
	// ErrTenantNotFound арендатор не найден
	ErrTenantNotFound = fmt.Errorf("%w: tenant not found", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid tenant data", domain.ErrValidation)

	// ErrInvalidOrdering недопустимое значение сортировки
	ErrInvalidOrdering = fmt.Errorf("%w: invalid ordering", domain.ErrValidation)

	// ErrInvalidStatus недопустимый статус арендатора
	ErrInvalidStatus = fmt.Errorf("%w: invalid tenant status", domain.ErrValidation)

	// ErrUsernameTaken имя пользователя занято
	ErrUsernameTaken = fmt.Errorf("%w: username already taken", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("tenants.service: internal error")
)
