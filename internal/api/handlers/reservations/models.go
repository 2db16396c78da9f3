package reservations

import (
	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-BotAdminService/internal/usecase/create_reservation"
)

// CreateReservationRequest тело POST /reservations совпадает с телом полной замены
type CreateReservationRequest struct {
	models.ReservationRequest
}

// ToUseCaseRequest конвертирует HTTP request в use case request
func (r *CreateReservationRequest) ToUseCaseRequest(caller access.Caller) *createReservation.Request {
	return &createReservation.Request{
		Caller:        caller,
		BotID:         r.BotID,
		ServiceID:     r.ServiceID,
		Slot:          r.Slot(),
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
		Status:        r.Status,
	}
}

// FromUseCaseResponse конвертирует ответ use case в тот же вид, что и GET /reservations/{id}
func FromUseCaseResponse(resp *createReservation.Response) *models.ReservationResponse {
	return &models.ReservationResponse{
		ID:            resp.ID,
		BotID:         resp.BotID,
		BotName:       resp.BotName,
		ServiceID:     resp.ServiceID,
		ServiceName:   resp.ServiceName,
		CustomerName:  resp.CustomerName,
		CustomerPhone: resp.CustomerPhone,
		Start:         resp.StartAt,
		End:           resp.EndAt,
		Status:        resp.Status,
		Notes:         resp.Notes,
		Cancellable:   resp.Cancellable,
		CreatedAt:     resp.CreatedAt,
		UpdatedAt:     resp.UpdatedAt,
	}
}
