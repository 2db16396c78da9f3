package reservations

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

var (
	// ErrReservationNotFound бронирование не найдено или недоступно вызывающему
	ErrReservationNotFound = fmt.Errorf("%w: reservation not found", domain.ErrNotFound)

	// ErrBotNotFound бот, указанный в бронировании, не существует
	ErrBotNotFound = fmt.Errorf("%w: bot not found", domain.ErrNotFound)

	// ErrServiceNotFound услуга, указанная в бронировании, не существует
	ErrServiceNotFound = fmt.Errorf("%w: service not found", domain.ErrNotFound)

	// ErrServiceBotMismatch услуга принадлежит другому боту
	ErrServiceBotMismatch = fmt.Errorf("%w: service belongs to another bot", domain.ErrValidation)

	// ErrSlotTaken у бота уже есть бронирование на это время
	ErrSlotTaken = fmt.Errorf("%w: slot already booked", domain.ErrConflict)

	// ErrCancellationWindow отменить можно не позднее чем за 24 часа до начала
	ErrCancellationWindow = fmt.Errorf("%w: reservation can no longer be cancelled", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations.service: internal error")
)
