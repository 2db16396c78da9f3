package catalog

import (
	"context"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.Service, error)
	List(ctx context.Context, scope access.Scope, filter domain.ServiceFilter) ([]*domain.Service, error)
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id int64) error
}

// BotRepository интерфейс репозитория ботов, нужен для проверки владельца бота
type BotRepository interface {
	GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.Bot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
