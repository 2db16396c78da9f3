package tenants

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// TenantRepository интерфейс репозитория арендаторов
type TenantRepository interface {
	Create(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error)
	GetByID(ctx context.Context, id int64, month domain.Period) (*domain.Tenant, error)
	List(ctx context.Context, filter domain.TenantFilter) ([]*domain.Tenant, int, error)
	Delete(ctx context.Context, id int64) error
}

// UserRepository интерфейс репозитория учётных записей
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
}

// BotRepository интерфейс репозитория ботов
type BotRepository interface {
	List(ctx context.Context, scope access.Scope, filter domain.BotFilter) ([]*domain.Bot, error)
}

// StatsRepository интерфейс агрегатов
type StatsRepository interface {
	TenantsOverview(ctx context.Context, period domain.SnapshotPeriod) (*domain.TenantsOverview, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
