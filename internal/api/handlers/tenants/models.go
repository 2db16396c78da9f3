package tenants

import (
	"time"

	updateTenant "github.com/m04kA/SMC-BotAdminService/internal/usecase/update_tenant"
)

// UpdateTenantRequest полное редактирование арендатора администратором
type UpdateTenantRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	AdminNotes     *string `json:"admin_notes"`
	Status         *string `json:"status"`
	MaxBotsAllowed *int    `json:"max_bots_allowed"`
}

// ChangeStatusRequest смена статуса
type ChangeStatusRequest struct {
	Status *string `json:"status"`
}

// BotLimitRequest смена лимита ботов
type BotLimitRequest struct {
	MaxBotsAllowed *int `json:"max_bots_allowed"`
}

// TenantUpdateResponse арендатор после изменения
type TenantUpdateResponse struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Status         string     `json:"status"`
	MaxBotsAllowed int        `json:"max_bots_allowed"`
	AdminNotes     string     `json:"admin_notes"`
	RegisteredAt   time.Time  `json:"registered_at"`
	LastAccessAt   *time.Time `json:"last_access_at"`
	BotCount       int        `json:"bot_count"`
	CanCreateBot   bool       `json:"can_create_bot"`
	DisabledBots   int64      `json:"disabled_bots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateTenant.Response) *TenantUpdateResponse {
	return &TenantUpdateResponse{
		ID:             resp.ID,
		UserID:         resp.UserID,
		Name:           resp.Name,
		Phone:          resp.Phone,
		Status:         resp.Status,
		MaxBotsAllowed: resp.MaxBotsAllowed,
		AdminNotes:     resp.AdminNotes,
		RegisteredAt:   resp.RegisteredAt,
		LastAccessAt:   resp.LastAccessAt,
		BotCount:       resp.BotCount,
		CanCreateBot:   resp.CanCreateBot,
		DisabledBots:   resp.DisabledBots,
	}
}
