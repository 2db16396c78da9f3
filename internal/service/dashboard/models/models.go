package models

import (
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	tenantModels "github.com/m04kA/SMC-BotAdminService/internal/service/tenants/models"
)

// Типы панели управления
const (
	TypeAdmin   = "admin_dashboard"
	TypeTenant  = "tenant_dashboard"
	TypeLimited = "limited_dashboard"
)

// TypeFor тип панели для вызывающего: администратор, владелец арендатора или ограниченный доступ
func TypeFor(caller access.Caller) string {
	switch {
	case caller.IsAdmin:
		return TypeAdmin
	case caller.HasTenant():
		return TypeTenant
	default:
		return TypeLimited
	}
}

// Features возможности панели по её типу
func Features(dashboardType string) []string {
	switch dashboardType {
	case TypeAdmin:
		return []string{
			"user_management",
			"tenant_management",
			"global_bot_management",
			"global_reservations",
			"system_stats",
			"admin_tools",
		}
	case TypeTenant:
		return []string{
			"bot_management",
			"reservations_management",
			"services_management",
			"calendar",
			"tenant_stats",
		}
	default:
		return []string{"limited_access"}
	}
}

// LimitedAccessMessage подсказка для учётной записи без профиля
const LimitedAccessMessage = "Your account has limited access. Contact the administrator for more information."

// BreakdownResponse распределение бронирований по статусам
type BreakdownResponse struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
}

// AdminSnapshotResponse сводка по платформе
type AdminSnapshotResponse struct {
	Users struct {
		Total  int `json:"total"`
		Active int `json:"active"`
		Staff  int `json:"staff"`
	} `json:"users"`
	Tenants struct {
		Total     int `json:"total"`
		Active    int `json:"active"`
		Suspended int `json:"suspended"`
		Inactive  int `json:"inactive"`
		WithBots  int `json:"with_bots"`
	} `json:"tenants"`
	Bots struct {
		Total    int `json:"total"`
		Active   int `json:"active"`
		Inactive int `json:"inactive"`
		Blocked  int `json:"blocked"`
	} `json:"bots"`
	Reservations   BreakdownResponse `json:"reservations"`
	RecentActivity struct {
		NewUsers        int `json:"new_users_30d"`
		NewTenants      int `json:"new_tenants_30d"`
		NewReservations int `json:"new_reservations_30d"`
	} `json:"recent_activity"`
	TopTenants  []tenantModels.TenantRankingResponse `json:"top_tenants"`
	GeneratedAt time.Time                            `json:"generated_at"`
}

// UpcomingResponse ближайшее бронирование
type UpcomingResponse struct {
	ID           int64     `json:"id"`
	BotName      string    `json:"bot_name"`
	CustomerName string    `json:"customer_name"`
	Start        time.Time `json:"start"`
	Status       string    `json:"status"`
	ServiceName  *string   `json:"service_name"`
}

// TenantSnapshotResponse сводка по арендатору
type TenantSnapshotResponse struct {
	TenantID   int64  `json:"tenant_id"`
	TenantName string `json:"tenant_name"`
	Bots       struct {
		Total    int `json:"total"`
		Active   int `json:"active"`
		Inactive int `json:"inactive"`
	} `json:"bots"`
	Reservations struct {
		BreakdownResponse
		ThisMonth int `json:"this_month"`
		LastMonth int `json:"last_month"`
	} `json:"reservations"`
	Upcoming    []UpcomingResponse `json:"upcoming"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// UserInfo данные учётной записи
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}

// TenantInfo краткие данные арендатора
type TenantInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// ConfigResponse конфигурация панели управления
type ConfigResponse struct {
	DashboardType string         `json:"dashboard_type"`
	UserInfo      UserInfo       `json:"user_info"`
	TenantInfo    *TenantInfo    `json:"tenant_info,omitempty"`
	Features      []string       `json:"features"`
	Stats         map[string]int `json:"stats"`
	Message       string         `json:"message,omitempty"`
}

// FromDomainAdminSnapshot конвертирует сводку по платформе
func FromDomainAdminSnapshot(s *domain.AdminSnapshot, generatedAt time.Time) *AdminSnapshotResponse {
	resp := &AdminSnapshotResponse{
		Reservations: fromBreakdown(s.Reservations),
		TopTenants:   tenantModels.FromDomainRankings(s.TopTenants),
		GeneratedAt:  generatedAt,
	}

	resp.Users.Total = s.Users.Total
	resp.Users.Active = s.Users.Active
	resp.Users.Staff = s.Users.Staff

	resp.Tenants.Total = s.Tenants.Total
	resp.Tenants.Active = s.Tenants.Active
	resp.Tenants.Suspended = s.Tenants.Suspended
	resp.Tenants.Inactive = s.Tenants.Inactive
	resp.Tenants.WithBots = s.Tenants.WithBots

	resp.Bots.Total = s.Bots.Total
	resp.Bots.Active = s.Bots.Active
	resp.Bots.Inactive = s.Bots.Inactive
	resp.Bots.Blocked = s.Bots.Blocked

	resp.RecentActivity.NewUsers = s.Recent.NewUsers
	resp.RecentActivity.NewTenants = s.Recent.NewTenants
	resp.RecentActivity.NewReservations = s.Recent.NewReservations

	return resp
}

// FromDomainTenantSnapshot конвертирует сводку по арендатору
func FromDomainTenantSnapshot(t *domain.Tenant, s *domain.TenantSnapshot, generatedAt time.Time) *TenantSnapshotResponse {
	resp := &TenantSnapshotResponse{
		TenantID:    t.ID,
		TenantName:  t.Name,
		Upcoming:    make([]UpcomingResponse, 0, len(s.Upcoming)),
		GeneratedAt: generatedAt,
	}

	resp.Bots.Total = s.Bots.Total
	resp.Bots.Active = s.Bots.Active
	resp.Bots.Inactive = s.Bots.Inactive

	resp.Reservations.BreakdownResponse = fromBreakdown(s.Reservations.ReservationBreakdown)
	resp.Reservations.ThisMonth = s.Reservations.ThisMonth
	resp.Reservations.LastMonth = s.Reservations.LastMonth

	for _, u := range s.Upcoming {
		resp.Upcoming = append(resp.Upcoming, UpcomingResponse{
			ID:           u.ID,
			BotName:      u.BotName,
			CustomerName: u.CustomerName,
			Start:        u.StartAt,
			Status:       string(u.Status),
			ServiceName:  u.ServiceName,
		})
	}

	return resp
}

func fromBreakdown(b domain.ReservationBreakdown) BreakdownResponse {
	return BreakdownResponse{
		Total:     b.Total,
		Confirmed: b.Confirmed,
		Pending:   b.Pending,
		Cancelled: b.Cancelled,
	}
}
