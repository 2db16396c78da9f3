package create_bot

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

var (
	// ErrInvalidName пустое или слишком длинное имя бота
	ErrInvalidName = fmt.Errorf("%w: create_bot: invalid bot name", domain.ErrValidation)

	// ErrInvalidPhoneID пустой или слишком длинный WhatsApp phone id
	ErrInvalidPhoneID = fmt.Errorf("%w: create_bot: invalid whatsapp phone id", domain.ErrValidation)

	// ErrTenantNotSpecified администратор не указал арендатора
	ErrTenantNotSpecified = fmt.Errorf("%w: create_bot: tenant must be specified", domain.ErrValidation)

	// ErrTenantNotFound арендатор не найден
	ErrTenantNotFound = fmt.Errorf("%w: create_bot: tenant not found", domain.ErrNotFound)

	// ErrTenantNotActive арендатор приостановлен или неактивен
	ErrTenantNotActive = fmt.Errorf("%w: create_bot: tenant is not active", domain.ErrValidation)

	// ErrQuotaExceeded достигнут лимит ботов арендатора
	ErrQuotaExceeded = fmt.Errorf("%w: create_bot: bot quota exceeded", domain.ErrValidation)

	// ErrPhoneIDTaken WhatsApp phone id уже используется
	ErrPhoneIDTaken = fmt.Errorf("%w: create_bot: whatsapp phone id already in use", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("create_bot: internal error")
)
