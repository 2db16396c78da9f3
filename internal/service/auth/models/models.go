package models

import (
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	tenantModels "github.com/m04kA/SMC-BotAdminService/internal/service/tenants/models"
)

// LoginRequest учётные данные
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserInfo данные учётной записи
type UserInfo struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	FullName   string     `json:"full_name"`
	IsStaff    bool       `json:"is_staff"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login"`
}

// LoginResponse выпущенный токен и тип панели управления
type LoginResponse struct {
	AccessToken   string                       `json:"access_token"`
	TokenType     string                       `json:"token_type"`
	ExpiresAt     time.Time                    `json:"expires_at"`
	DashboardType string                       `json:"dashboard_type"`
	User          UserInfo                     `json:"user_info"`
	Tenant        *tenantModels.TenantResponse `json:"tenant"`
}

// MeResponse текущий пользователь и его арендатор (null без профиля)
type MeResponse struct {
	User          UserInfo                     `json:"user"`
	Tenant        *tenantModels.TenantResponse `json:"tenant"`
	DashboardType string                       `json:"dashboard_type"`
}

// LogoutResponse результат выхода
type LogoutResponse struct {
	Message string `json:"message"`
}

// FromDomainUser конвертирует учётную запись; хеш пароля не выдаётся
func FromDomainUser(u *domain.User) UserInfo {
	return UserInfo{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		IsStaff:    u.IsStaff,
		DateJoined: u.DateJoined,
		LastLogin:  u.LastLogin,
	}
}
