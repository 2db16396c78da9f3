package models

import (
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// Request модели

// UpdateBotRequest полная замена редактируемых полей бота
type UpdateBotRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	SystemPrompt    string `json:"system_prompt"`
	WhatsAppPhoneID string `json:"whatsapp_phone_id"`
	Enabled         bool   `json:"enabled"`
	// Blocked меняет только администратор; nil оставляет как есть
	Blocked *bool `json:"blocked,omitempty"`
}

// Response модели

// BotResponse бот с производными полями
type BotResponse struct {
	ID                  int64     `json:"id"`
	TenantID            int64     `json:"tenant_id"`
	TenantName          string    `json:"tenant_name"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	SystemPrompt        string    `json:"system_prompt"`
	WhatsAppPhoneID     string    `json:"whatsapp_phone_id"`
	Enabled             bool      `json:"enabled"`
	Blocked             bool      `json:"blocked"`
	Operational         bool      `json:"operational"`
	TotalReservations   int       `json:"total_reservations"`
	PendingReservations int       `json:"pending_reservations"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// BotListResponse список ботов
type BotListResponse struct {
	Bots  []BotResponse `json:"bots"`
	Total int           `json:"total"`
}

// ToggleBlockResponse результат переключения блокировки
type ToggleBlockResponse struct {
	BotID       int64  `json:"bot_id"`
	Blocked     bool   `json:"blocked"`
	Operational bool   `json:"operational"`
	Message     string `json:"message"`
}

// FromDomainBot конвертирует бота в ответ
func FromDomainBot(b *domain.Bot) *BotResponse {
	return &BotResponse{
		ID:                  b.ID,
		TenantID:            b.TenantID,
		TenantName:          b.TenantName,
		Name:                b.Name,
		Description:         b.Description,
		SystemPrompt:        b.SystemPrompt,
		WhatsAppPhoneID:     b.WhatsAppPhoneID,
		Enabled:             b.Enabled,
		Blocked:             b.Blocked,
		Operational:         b.IsOperational(),
		TotalReservations:   b.TotalReservations,
		PendingReservations: b.PendingReservations,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

// FromDomainBotList конвертирует список ботов
func FromDomainBotList(bots []*domain.Bot) *BotListResponse {
	resp := &BotListResponse{Bots: make([]BotResponse, 0, len(bots)), Total: len(bots)}
	for _, b := range bots {
		resp.Bots = append(resp.Bots, *FromDomainBot(b))
	}
	return resp
}
