package bots

import (
	"context"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/service/bots/models"
	createBot "github.com/m04kA/SMC-BotAdminService/internal/usecase/create_bot"
)

type BotService interface {
	List(ctx context.Context, caller access.Caller, tenantID *int64) (*models.BotListResponse, error)
	GetByID(ctx context.Context, caller access.Caller, id int64) (*models.BotResponse, error)
	Update(ctx context.Context, caller access.Caller, id int64, req *models.UpdateBotRequest) (*models.BotResponse, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
}

type CreateBotUseCase interface {
	Execute(ctx context.Context, req *createBot.Request) (*createBot.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
