package create_bot

import (
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// Request запрос на создание бота.
// TenantID обязателен для администратора без собственного профиля арендатора.
type Request struct {
	Caller          access.Caller
	TenantID        *int64
	Name            string
	Description     string
	SystemPrompt    string
	WhatsAppPhoneID string
	Enabled         *bool
}

// Response созданный бот
type Response struct {
	ID              int64
	TenantID        int64
	TenantName      string
	Name            string
	Description     string
	SystemPrompt    string
	WhatsAppPhoneID string
	Enabled         bool
	Blocked         bool
	Operational     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func fromDomain(bot *domain.Bot) *Response {
	return &Response{
		ID:              bot.ID,
		TenantID:        bot.TenantID,
		TenantName:      bot.TenantName,
		Name:            bot.Name,
		Description:     bot.Description,
		SystemPrompt:    bot.SystemPrompt,
		WhatsAppPhoneID: bot.WhatsAppPhoneID,
		Enabled:         bot.Enabled,
		Blocked:         bot.Blocked,
		Operational:     bot.IsOperational(),
		CreatedAt:       bot.CreatedAt,
		UpdatedAt:       bot.UpdatedAt,
	}
}
