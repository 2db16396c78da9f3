package tenants

import (
	"context"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	botModels "github.com/m04kA/SMC-BotAdminService/internal/service/bots/models"
	"github.com/m04kA/SMC-BotAdminService/internal/service/tenants/models"
	createBot "github.com/m04kA/SMC-BotAdminService/internal/usecase/create_bot"
	updateTenant "github.com/m04kA/SMC-BotAdminService/internal/usecase/update_tenant"
)

type TenantService interface {
	List(ctx context.Context, caller access.Caller, req *models.ListTenantsRequest) (*models.TenantListResponse, error)
	GetByID(ctx context.Context, caller access.Caller, id int64) (*models.TenantDetailResponse, error)
	Provision(ctx context.Context, caller access.Caller, req *models.ProvisionTenantRequest) (*models.TenantResponse, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
	Activity(ctx context.Context, caller access.Caller, id int64) (*models.ActivityResponse, error)
	Stats(ctx context.Context, caller access.Caller) (*models.StatsResponse, error)
}

type BotService interface {
	List(ctx context.Context, caller access.Caller, tenantID *int64) (*botModels.BotListResponse, error)
	ToggleBlock(ctx context.Context, caller access.Caller, tenantID, botID int64) (*botModels.ToggleBlockResponse, error)
}

type UpdateTenantUseCase interface {
	Execute(ctx context.Context, req *updateTenant.Request) (*updateTenant.Response, error)
}

type CreateBotUseCase interface {
	Execute(ctx context.Context, req *createBot.Request) (*createBot.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
