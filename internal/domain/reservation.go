package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ErrInvalidReservationStatus статус вне допустимого набора
	ErrInvalidReservationStatus = fmt.Errorf("%w: reservation: invalid status", ErrValidation)

	// ErrInvalidCustomerName пустое или слишком длинное имя клиента
	ErrInvalidCustomerName = fmt.Errorf("%w: reservation: invalid customer name", ErrValidation)

	// ErrInvalidCustomerPhone пустой или слишком длинный телефон клиента
	ErrInvalidCustomerPhone = fmt.Errorf("%w: reservation: invalid customer phone", ErrValidation)

	// ErrNotesTooLong слишком длинный комментарий
	ErrNotesTooLong = fmt.Errorf("%w: reservation: notes too long", ErrValidation)
)

// ReservationStatus статус бронирования
type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// IsValid проверяет, что статус входит в допустимый набор
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusConfirmed, ReservationStatusPending, ReservationStatusCancelled:
		return true
	}
	return false
}

// Reservation бронирование слота у бота
type Reservation struct {
	ID            int64
	BotID         int64
	ServiceID     *int64
	CustomerName  string
	CustomerPhone string
	StartAt       time.Time
	EndAt         time.Time
	Status        ReservationStatus
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Денормализованные данные для ответов (JOIN)
	BotName     string
	ServiceName *string
	TenantID    int64
}

// IsCancellable отмена возможна не позднее чем за CancellationWindow до начала.
// Вычисляется на момент now, не хранится.
func (r *Reservation) IsCancellable(now time.Time) bool {
	return now.Before(r.StartAt.Add(-CancellationWindow))
}

// ReservationFilter параметры списка бронирований
type ReservationFilter struct {
	BotID  *int64
	Status *ReservationStatus
	// [From, To) интервал по времени начала (фильтр по календарной дате)
	From *time.Time
	To   *time.Time
}

// ParseReservationStatus разбирает статус из запроса
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidReservationStatus, s)
	}
	return status, nil
}

// ValidateCustomer проверяет контактные данные клиента и комментарий
func ValidateCustomer(name, phone, notes string) error {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return ErrInvalidCustomerName
	}
	phone = strings.TrimSpace(phone)
	if phone == "" || utf8.RuneCountInString(phone) > MaxPhoneLength {
		return ErrInvalidCustomerPhone
	}
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}
