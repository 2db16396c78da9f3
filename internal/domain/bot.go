package domain

import "time"

// Bot WhatsApp-бот арендатора
type Bot struct {
	ID              int64
	TenantID        int64
	Name            string
	Description     string
	SystemPrompt    string
	WhatsAppPhoneID string
	Enabled         bool
	Blocked         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Данные арендатора (JOIN tenants)
	TenantName   string
	TenantStatus TenantStatus

	// Вычисляемые счётчики
	TotalReservations   int
	PendingReservations int
}

// IsOperational бот включён, не заблокирован и арендатор активен
func (b *Bot) IsOperational() bool {
	return b.Enabled && !b.Blocked && b.TenantStatus == TenantStatusActive
}

// BotFilter параметры списка ботов
type BotFilter struct {
	TenantID *int64
}
