package reservations

import (
	"context"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-BotAdminService/internal/usecase/create_reservation"
)

type ReservationService interface {
	List(ctx context.Context, caller access.Caller, req *models.ListReservationsRequest) (*models.ReservationListResponse, error)
	GetByID(ctx context.Context, caller access.Caller, id int64) (*models.ReservationResponse, error)
	Replace(ctx context.Context, caller access.Caller, id int64, req *models.ReservationRequest) (*models.ReservationResponse, error)
	UpdateStatus(ctx context.Context, caller access.Caller, id int64, req *models.UpdateStatusRequest) (*models.ReservationResponse, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
}

type CreateReservationUseCase interface {
	Execute(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
