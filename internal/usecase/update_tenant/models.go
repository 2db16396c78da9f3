package update_tenant

import (
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// Request изменение арендатора. nil поля не меняются.
// Один запрос обслуживает полное редактирование, смену статуса и смену лимита ботов.
type Request struct {
	Caller         access.Caller
	TenantID       int64
	Name           *string
	Phone          *string
	AdminNotes     *string
	Status         *string
	MaxBotsAllowed *int
}

// Response арендатор после изменения
type Response struct {
	ID             int64
	UserID         int64
	Name           string
	Phone          string
	Status         string
	MaxBotsAllowed int
	AdminNotes     string
	RegisteredAt   time.Time
	LastAccessAt   *time.Time
	BotCount       int
	CanCreateBot   bool
	// DisabledBots сколько ботов выключено при смене статуса
	DisabledBots int64
}

func fromDomain(t *domain.Tenant, botCount int, disabled int64) *Response {
	return &Response{
		ID:             t.ID,
		UserID:         t.UserID,
		Name:           t.Name,
		Phone:          t.Phone,
		Status:         string(t.Status),
		MaxBotsAllowed: t.MaxBotsAllowed,
		AdminNotes:     t.AdminNotes,
		RegisteredAt:   t.RegisteredAt,
		LastAccessAt:   t.LastAccessAt,
		BotCount:       botCount,
		CanCreateBot:   t.CanCreateBot(botCount),
		DisabledBots:   disabled,
	}
}
