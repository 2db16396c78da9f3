package dashboard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// StatsRepository интерфейс агрегатов
type StatsRepository interface {
	AdminSnapshot(ctx context.Context, period domain.SnapshotPeriod) (*domain.AdminSnapshot, error)
	TenantSnapshot(ctx context.Context, tenantID int64, period domain.SnapshotPeriod) (*domain.TenantSnapshot, error)
}

// TenantRepository интерфейс репозитория арендаторов
type TenantRepository interface {
	GetByID(ctx context.Context, id int64, month domain.Period) (*domain.Tenant, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
