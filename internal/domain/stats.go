package domain

import "time"

// ReservationBreakdown распределение бронирований по статусам
type ReservationBreakdown struct {
	Total     int
	Confirmed int
	Pending   int
	Cancelled int
}

// AdminSnapshot сводка по всей платформе
type AdminSnapshot struct {
	Users struct {
		Total  int
		Active int
		Staff  int
	}
	Tenants struct {
		Total     int
		Active    int
		Suspended int
		Inactive  int
		WithBots  int
	}
	Bots struct {
		Total    int
		Active   int
		Inactive int
		Blocked  int
	}
	Reservations ReservationBreakdown
	Recent       struct {
		NewUsers        int
		NewTenants      int
		NewReservations int
	}
	TopTenants []TenantRanking
}

// TenantRanking арендатор в рейтинге по числу бронирований
type TenantRanking struct {
	TenantID          int64
	Name              string
	TotalReservations int
	BotCount          int
}

// TenantSnapshot сводка по одному арендатору
type TenantSnapshot struct {
	Bots struct {
		Total    int
		Active   int
		Inactive int
	}
	Reservations struct {
		ReservationBreakdown
		ThisMonth int
		LastMonth int
	}
	Upcoming []UpcomingReservation
}

// UpcomingReservation ближайшее бронирование
type UpcomingReservation struct {
	ID           int64
	BotName      string
	CustomerName string
	StartAt      time.Time
	Status       ReservationStatus
	ServiceName  *string
}

// TenantsOverview агрегаты по арендаторам для администратора
type TenantsOverview struct {
	Total         int
	Active        int
	Suspended     int
	Inactive      int
	NewLast30Days int
	AverageBots   float64
	TopByBookings []TenantRanking
}

// Period полуоткрытый интервал [From, To)
type Period struct {
	From time.Time
	To   time.Time
}

// SnapshotPeriod границы периодов для агрегатов, считаются в часовом поясе бронирований
type SnapshotPeriod struct {
	Now            time.Time
	RecentSince    time.Time
	MonthStart     time.Time
	NextMonthStart time.Time
	PrevMonthStart time.Time
}

// NewSnapshotPeriod считает границы текущего и прошлого календарного месяца
func NewSnapshotPeriod(now time.Time, loc *time.Location) SnapshotPeriod {
	local := now.In(loc)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)

	return SnapshotPeriod{
		Now:            now,
		RecentSince:    now.Add(-RecentPeriod),
		MonthStart:     monthStart,
		NextMonthStart: monthStart.AddDate(0, 1, 0),
		PrevMonthStart: monthStart.AddDate(0, -1, 0),
	}
}

// CurrentMonth текущий календарный месяц
func (p SnapshotPeriod) CurrentMonth() Period {
	return Period{From: p.MonthStart, To: p.NextMonthStart}
}

// PreviousMonth прошлый календарный месяц
func (p SnapshotPeriod) PreviousMonth() Period {
	return Period{From: p.PrevMonthStart, To: p.MonthStart}
}
