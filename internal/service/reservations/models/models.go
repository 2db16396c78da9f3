package models

import (
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// Request модели

// ReservationRequest создание или полная замена бронирования.
// Время начала задаётся либо start (RFC3339), либо парой date+time в часовом поясе бронирований.
type ReservationRequest struct {
	BotID         int64      `json:"bot_id"`
	ServiceID     *int64     `json:"service_id,omitempty"`
	Start         *time.Time `json:"start,omitempty"`
	Date          string     `json:"date,omitempty"` // "2025-06-01"
	Time          string     `json:"time,omitempty"` // "09:00"
	End           *time.Time `json:"end,omitempty"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	Notes         string     `json:"notes,omitempty"`
	Status        string     `json:"status,omitempty"`
}

// Slot время бронирования из запроса
func (r *ReservationRequest) Slot() domain.SlotInput {
	return domain.SlotInput{
		Start: r.Start,
		Date:  r.Date,
		Time:  r.Time,
		End:   r.End,
	}
}

// UpdateStatusRequest частичное обновление: только статус
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListReservationsRequest фильтры списка бронирований
type ListReservationsRequest struct {
	Date   *string // YYYY-MM-DD в часовом поясе бронирований
	BotID  *int64
	Status *string
}

// Response модели

// ReservationResponse бронирование с производным флагом cancellable
type ReservationResponse struct {
	ID            int64     `json:"id"`
	BotID         int64     `json:"bot_id"`
	BotName       string    `json:"bot_name"`
	ServiceID     *int64    `json:"service_id"`
	ServiceName   *string   `json:"service_name"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	Cancellable   bool      `json:"cancellable"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ReservationListResponse список бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Total        int                   `json:"total"`
}

// FromDomainReservation конвертирует бронирование; cancellable считается на момент now
func FromDomainReservation(res *domain.Reservation, now time.Time) *ReservationResponse {
	return &ReservationResponse{
		ID:            res.ID,
		BotID:         res.BotID,
		BotName:       res.BotName,
		ServiceID:     res.ServiceID,
		ServiceName:   res.ServiceName,
		CustomerName:  res.CustomerName,
		CustomerPhone: res.CustomerPhone,
		Start:         res.StartAt,
		End:           res.EndAt,
		Status:        string(res.Status),
		Notes:         res.Notes,
		Cancellable:   res.IsCancellable(now),
		CreatedAt:     res.CreatedAt,
		UpdatedAt:     res.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список бронирований
func FromDomainReservationList(list []*domain.Reservation, now time.Time) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(list)),
		Total:        len(list),
	}
	for _, res := range list {
		resp.Reservations = append(resp.Reservations, *FromDomainReservation(res, now))
	}
	return resp
}
