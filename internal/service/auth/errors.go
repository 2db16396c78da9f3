package auth

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

var (
	// ErrInvalidCredentials неверное имя пользователя или пароль
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)

	// ErrAccountDisabled учётная запись деактивирована
	ErrAccountDisabled = fmt.Errorf("%w: account disabled", domain.ErrUnauthenticated)

	// ErrInvalidToken токен отсутствует, просрочен, подделан или отозван
	ErrInvalidToken = fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)

	// ErrInvalidInput не указаны имя пользователя или пароль
	ErrInvalidInput = fmt.Errorf("%w: username and password are required", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("auth.service: internal error")
)
