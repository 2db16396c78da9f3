package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// Request запрос на создание бронирования
type Request struct {
	Caller        access.Caller
	BotID         int64
	ServiceID     *int64
	Slot          domain.SlotInput
	CustomerName  string
	CustomerPhone string
	Notes         string
	// Status пустой означает confirmed
	Status string
}

// Response созданное бронирование
type Response struct {
	ID            int64
	BotID         int64
	BotName       string
	ServiceID     *int64
	ServiceName   *string
	CustomerName  string
	CustomerPhone string
	StartAt       time.Time
	EndAt         time.Time
	Status        string
	Notes         string
	Cancellable   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func fromDomain(res *domain.Reservation, now time.Time) *Response {
	return &Response{
		ID:            res.ID,
		BotID:         res.BotID,
		BotName:       res.BotName,
		ServiceID:     res.ServiceID,
		ServiceName:   res.ServiceName,
		CustomerName:  res.CustomerName,
		CustomerPhone: res.CustomerPhone,
		StartAt:       res.StartAt,
		EndAt:         res.EndAt,
		Status:        string(res.Status),
		Notes:         res.Notes,
		Cancellable:   res.IsCancellable(now),
		CreatedAt:     res.CreatedAt,
		UpdatedAt:     res.UpdatedAt,
	}
}
