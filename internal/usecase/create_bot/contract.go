package create_bot

import (
	"context"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// TenantRepository интерфейс репозитория арендаторов
type TenantRepository interface {
	GetForUpdate(ctx context.Context, id int64) (*domain.Tenant, error)
}

// BotRepository интерфейс репозитория ботов
type BotRepository interface {
	CountByTenant(ctx context.Context, tenantID int64) (int, error)
	Create(ctx context.Context, bot *domain.Bot) (*domain.Bot, error)
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
