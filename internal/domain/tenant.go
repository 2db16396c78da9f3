package domain

import "time"

// TenantStatus статус арендатора
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusInactive  TenantStatus = "inactive"
)

// IsValid проверяет, что статус входит в допустимый набор
func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusActive, TenantStatusSuspended, TenantStatusInactive:
		return true
	}
	return false
}

// DisablesBots переход в этот статус принудительно выключает ботов арендатора
func (s TenantStatus) DisablesBots() bool {
	return s == TenantStatusSuspended || s == TenantStatusInactive
}

// Tenant арендатор (бизнес-клиент), владеет ботами
type Tenant struct {
	ID             int64
	UserID         int64
	Name           string
	Phone          string
	Status         TenantStatus
	MaxBotsAllowed int
	RegisteredAt   time.Time
	LastAccessAt   *time.Time
	AdminNotes     string

	// Данные учётной записи (JOIN users)
	Username  string
	Email     string
	FirstName string
	LastName  string

	// Вычисляемые счётчики, заполняются репозиторием при чтении
	BotCount                  int
	ActiveBotCount            int
	ReservationCount          int
	ReservationCountThisMonth int
}

// CanCreateBot квота и статус позволяют создать ещё одного бота
func (t *Tenant) CanCreateBot(currentBots int) bool {
	return t.Status == TenantStatusActive && currentBots < t.MaxBotsAllowed
}

// DaysSinceRegistration полных дней с момента регистрации
func (t *Tenant) DaysSinceRegistration(now time.Time) int {
	if now.Before(t.RegisteredAt) {
		return 0
	}
	return int(now.Sub(t.RegisteredAt).Hours() / 24)
}

// TenantFilter параметры списка арендаторов
type TenantFilter struct {
	Status   *TenantStatus
	Search   string
	Ordering string
	Limit    uint64
	Offset   uint64
	// Month текущий месяц для счётчика бронирований за месяц
	Month Period
}

// TenantActivity событие журнала активности арендатора
type TenantActivity struct {
	Type        string
	Description string
	Timestamp   time.Time
}
