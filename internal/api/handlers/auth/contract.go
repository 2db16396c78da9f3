package auth

import (
	"context"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	authService "github.com/m04kA/SMC-BotAdminService/internal/service/auth"
	"github.com/m04kA/SMC-BotAdminService/internal/service/auth/models"
)

type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Me(ctx context.Context, caller access.Caller) (*models.MeResponse, error)
	Logout(ctx context.Context, session *authService.Session) (*models.LogoutResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
