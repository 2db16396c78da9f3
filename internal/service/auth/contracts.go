package auth

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	"github.com/m04kA/SMC-BotAdminService/pkg/jwtauth"
)

// UserRepository интерфейс репозитория учётных записей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// TenantRepository интерфейс репозитория арендаторов
type TenantRepository interface {
	FindIDByUserID(ctx context.Context, userID int64) (*int64, error)
	GetByID(ctx context.Context, id int64, month domain.Period) (*domain.Tenant, error)
	TouchLastAccess(ctx context.Context, id int64, at time.Time) error
}

// TokenIssuer выпуск и проверка access-токенов
type TokenIssuer interface {
	Issue(userID int64, username string, isStaff bool) (*jwtauth.Token, error)
	Parse(token string) (*jwtauth.Claims, error)
}

// TokenStore список отозванных токенов
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
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
