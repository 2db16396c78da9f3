package update_tenant

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

var (
	// ErrInvalidName пустое или слишком длинное название
	ErrInvalidName = fmt.Errorf("%w: update_tenant: invalid tenant name", domain.ErrValidation)

	// ErrInvalidPhone слишком длинный телефон
	ErrInvalidPhone = fmt.Errorf("%w: update_tenant: invalid phone", domain.ErrValidation)

	// ErrInvalidStatus статус вне допустимого набора
	ErrInvalidStatus = fmt.Errorf("%w: update_tenant: invalid status", domain.ErrValidation)

	// ErrNegativeBotLimit отрицательный лимит ботов
	ErrNegativeBotLimit = fmt.Errorf("%w: update_tenant: max bots allowed must not be negative", domain.ErrValidation)

	// ErrBotLimitBelowCount лимит меньше текущего числа ботов
	ErrBotLimitBelowCount = fmt.Errorf("%w: update_tenant: max bots allowed is below current bot count", domain.ErrValidation)

	// ErrNothingToUpdate в запросе нет ни одного поля
	ErrNothingToUpdate = fmt.Errorf("%w: update_tenant: nothing to update", domain.ErrValidation)

	// ErrTenantNotFound арендатор не найден
	ErrTenantNotFound = fmt.Errorf("%w: update_tenant: tenant not found", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("update_tenant: internal error")
)
