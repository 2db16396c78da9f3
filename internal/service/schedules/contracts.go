package schedules

import (
	"context"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// ScheduleRepository интерфейс репозитория окон расписания
type ScheduleRepository interface {
	Create(ctx context.Context, w *domain.ScheduleWindow) (*domain.ScheduleWindow, error)
	GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.ScheduleWindow, error)
	List(ctx context.Context, scope access.Scope, filter domain.ScheduleFilter) ([]*domain.ScheduleWindow, error)
	Update(ctx context.Context, w *domain.ScheduleWindow) error
	Delete(ctx context.Context, id int64) error
}

// BotRepository интерфейс репозитория ботов
type BotRepository interface {
	GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.Bot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
