package bots

import (
	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/service/bots/models"
	createBot "github.com/m04kA/SMC-BotAdminService/internal/usecase/create_bot"
)

// CreateBotRequest HTTP request model.
// tenant_id обязателен для администратора и игнорируется путём /tenants/{tenantId}/bots.
type CreateBotRequest struct {
	TenantID        *int64 `json:"tenant_id,omitempty"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	SystemPrompt    string `json:"system_prompt"`
	WhatsAppPhoneID string `json:"whatsapp_phone_id"`
	Enabled         *bool  `json:"enabled,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBotRequest) ToUseCaseRequest(caller access.Caller) *createBot.Request {
	return &createBot.Request{
		Caller:          caller,
		TenantID:        r.TenantID,
		Name:            r.Name,
		Description:     r.Description,
		SystemPrompt:    r.SystemPrompt,
		WhatsAppPhoneID: r.WhatsAppPhoneID,
		Enabled:         r.Enabled,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBot.Response) *models.BotResponse {
	return &models.BotResponse{
		ID:              resp.ID,
		TenantID:        resp.TenantID,
		TenantName:      resp.TenantName,
		Name:            resp.Name,
		Description:     resp.Description,
		SystemPrompt:    resp.SystemPrompt,
		WhatsAppPhoneID: resp.WhatsAppPhoneID,
		Enabled:         resp.Enabled,
		Blocked:         resp.Blocked,
		Operational:     resp.Operational,
		CreatedAt:       resp.CreatedAt,
		UpdatedAt:       resp.UpdatedAt,
	}
}
