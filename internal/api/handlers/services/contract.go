package services

import (
	"context"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/service/catalog/models"
)

type CatalogService interface {
	List(ctx context.Context, caller access.Caller, botID *int64) (*models.ServiceListResponse, error)
	GetByID(ctx context.Context, caller access.Caller, id int64) (*models.ServiceResponse, error)
	Create(ctx context.Context, caller access.Caller, req *models.ServiceRequest) (*models.ServiceResponse, error)
	Update(ctx context.Context, caller access.Caller, id int64, req *models.ServiceRequest) (*models.ServiceResponse, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
