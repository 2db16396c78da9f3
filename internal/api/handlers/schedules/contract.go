package schedules

import (
	"context"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/service/schedules/models"
)

type ScheduleService interface {
	List(ctx context.Context, caller access.Caller, botID *int64) (*models.ScheduleListResponse, error)
	GetByID(ctx context.Context, caller access.Caller, id int64) (*models.ScheduleResponse, error)
	Create(ctx context.Context, caller access.Caller, req *models.ScheduleRequest) (*models.ScheduleResponse, error)
	Update(ctx context.Context, caller access.Caller, id int64, req *models.ScheduleRequest) (*models.ScheduleResponse, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
