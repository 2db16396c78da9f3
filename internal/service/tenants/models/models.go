package models

import (
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	botModels "github.com/m04kA/SMC-BotAdminService/internal/service/bots/models"
)

// Request модели

// ListTenantsRequest параметры списка арендаторов
type ListTenantsRequest struct {
	Page     int
	PageSize int
	Status   *string
	Search   string
	Ordering string
}

// ProvisionTenantRequest создание учётной записи и профиля арендатора
type ProvisionTenantRequest struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Status         *string `json:"status,omitempty"`
	MaxBotsAllowed *int    `json:"max_bots_allowed,omitempty"`
	AdminNotes     string  `json:"admin_notes,omitempty"`
}

// Response модели

// TenantResponse арендатор с производными полями
type TenantResponse struct {
	ID                        int64      `json:"id"`
	UserID                    int64      `json:"user_id"`
	Username                  string     `json:"username"`
	Email                     string     `json:"email"`
	FullName                  string     `json:"full_name"`
	Name                      string     `json:"name"`
	Phone                     string     `json:"phone"`
	Status                    string     `json:"status"`
	MaxBotsAllowed            int        `json:"max_bots_allowed"`
	RegisteredAt              time.Time  `json:"registered_at"`
	LastAccessAt              *time.Time `json:"last_access_at"`
	AdminNotes                string     `json:"admin_notes"`
	BotCount                  int        `json:"bot_count"`
	ActiveBotCount            int        `json:"active_bot_count"`
	ReservationCount          int        `json:"reservation_count"`
	ReservationCountThisMonth int        `json:"reservation_count_this_month"`
	CanCreateBot              bool       `json:"can_create_bot"`
	DaysSinceRegistration     int        `json:"days_since_registration"`
}

// TenantDetailResponse арендатор вместе с ботами
type TenantDetailResponse struct {
	TenantResponse
	Bots []botModels.BotResponse `json:"bots"`
}

// TenantListResponse страница арендаторов
type TenantListResponse struct {
	Count      int              `json:"count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	Results    []TenantResponse `json:"results"`
}

// ActivityEvent событие журнала активности
type ActivityEvent struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// ActivityResponse журнал активности арендатора, новые события первыми
type ActivityResponse struct {
	TenantID   int64           `json:"tenant_id"`
	TenantName string          `json:"tenant_name"`
	Events     []ActivityEvent `json:"events"`
}

// TenantRankingResponse арендатор в рейтинге
type TenantRankingResponse struct {
	TenantID          int64  `json:"tenant_id"`
	Name              string `json:"name"`
	TotalReservations int    `json:"total_reservations"`
	BotCount          int    `json:"bot_count"`
}

// StatsResponse агрегаты по арендаторам
type StatsResponse struct {
	Total         int                     `json:"total"`
	Active        int                     `json:"active"`
	Suspended     int                     `json:"suspended"`
	Inactive      int                     `json:"inactive"`
	NewLast30Days int                     `json:"new_last_30_days"`
	AverageBots   float64                 `json:"average_bots_per_tenant"`
	TopByBookings []TenantRankingResponse `json:"top_by_reservations"`
}

// FromDomainTenant конвертирует арендатора; производные поля считаются на момент now
func FromDomainTenant(t *domain.Tenant, now time.Time) *TenantResponse {
	user := domain.User{Username: t.Username, FirstName: t.FirstName, LastName: t.LastName}

	return &TenantResponse{
		ID:                        t.ID,
		UserID:                    t.UserID,
		Username:                  t.Username,
		Email:                     t.Email,
		FullName:                  user.FullName(),
		Name:                      t.Name,
		Phone:                     t.Phone,
		Status:                    string(t.Status),
		MaxBotsAllowed:            t.MaxBotsAllowed,
		RegisteredAt:              t.RegisteredAt,
		LastAccessAt:              t.LastAccessAt,
		AdminNotes:                t.AdminNotes,
		BotCount:                  t.BotCount,
		ActiveBotCount:            t.ActiveBotCount,
		ReservationCount:          t.ReservationCount,
		ReservationCountThisMonth: t.ReservationCountThisMonth,
		CanCreateBot:              t.CanCreateBot(t.BotCount),
		DaysSinceRegistration:     t.DaysSinceRegistration(now),
	}
}

// FromDomainRankings конвертирует рейтинг арендаторов
func FromDomainRankings(rankings []domain.TenantRanking) []TenantRankingResponse {
	resp := make([]TenantRankingResponse, 0, len(rankings))
	for _, r := range rankings {
		resp = append(resp, TenantRankingResponse{
			TenantID:          r.TenantID,
			Name:              r.Name,
			TotalReservations: r.TotalReservations,
			BotCount:          r.BotCount,
		})
	}
	return resp
}
