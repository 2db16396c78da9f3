package bots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

var (
	// ErrBotNotFound возвращается, когда бот не найден или недоступен вызывающему
	ErrBotNotFound = fmt.Errorf("%w: bot not found", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid bot data", domain.ErrValidation)

	// ErrTenantNotActive нельзя включить бота приостановленного или неактивного арендатора
	ErrTenantNotActive = fmt.Errorf("%w: cannot enable bot of a tenant that is not active", domain.ErrValidation)

	// ErrBlockedAdminOnly блокировку меняет только администратор
	ErrBlockedAdminOnly = fmt.Errorf("%w: only administrators can change the blocked flag", domain.ErrAccessDenied)

	// ErrPhoneIDTaken WhatsApp phone id уже используется
	ErrPhoneIDTaken = fmt.Errorf("%w: whatsapp phone id already in use", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bots.service: internal error")
)
