package dashboard

import (
	"context"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/service/dashboard/models"
)

type DashboardService interface {
	AdminSnapshot(ctx context.Context, caller access.Caller) (*models.AdminSnapshotResponse, error)
	TenantSnapshot(ctx context.Context, caller access.Caller) (*models.TenantSnapshotResponse, error)
	Config(ctx context.Context, caller access.Caller) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
