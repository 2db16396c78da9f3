package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

var (
	// ErrInvalidStatus при создании допустимы только confirmed и pending
	ErrInvalidStatus = fmt.Errorf("%w: create_reservation: status must be confirmed or pending", domain.ErrValidation)

	// ErrBotNotFound бот не найден
	ErrBotNotFound = fmt.Errorf("%w: create_reservation: bot not found", domain.ErrNotFound)

	// ErrServiceNotFound услуга не найдена
	ErrServiceNotFound = fmt.Errorf("%w: create_reservation: service not found", domain.ErrNotFound)

	// ErrServiceBotMismatch услуга принадлежит другому боту
	ErrServiceBotMismatch = fmt.Errorf("%w: create_reservation: service belongs to another bot", domain.ErrValidation)

	// ErrSlotTaken у бота уже есть бронирование на это время
	ErrSlotTaken = fmt.Errorf("%w: create_reservation: slot already booked", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("create_reservation: internal error")
)
