package dashboard

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

var (
	// ErrTenantNotFound профиль арендатора вызывающего не найден
	ErrTenantNotFound = fmt.Errorf("%w: tenant not found", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("dashboard.service: internal error")
)
