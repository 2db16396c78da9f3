package bots

import (
	"context"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// BotRepository интерфейс репозитория ботов
type BotRepository interface {
	GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.Bot, error)
	List(ctx context.Context, scope access.Scope, filter domain.BotFilter) ([]*domain.Bot, error)
	Update(ctx context.Context, b *domain.Bot) error
	ToggleBlocked(ctx context.Context, tenantID, botID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// TenantRepository интерфейс репозитория арендаторов
type TenantRepository interface {
	GetForUpdate(ctx context.Context, id int64) (*domain.Tenant, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
