package domain

import "time"

// Значения по умолчанию
const (
	DefaultMaxBotsAllowed      = 3
	DefaultReservationDuration = time.Hour
	CancellationWindow         = 24 * time.Hour
)

// Пагинация списка арендаторов
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Ограничения на поля
const (
	MaxNameLength    = 100
	MaxPhoneLength   = 20
	MaxPhoneIDLength = 50 // bots.whatsapp_phone_id VARCHAR(50)
	MaxNotesLength   = 1000
	MinDayOfWeek     = 0
	MaxDayOfWeek     = 6
	ActivityLogSize  = 20
	UpcomingLimit    = 5
	TopTenantsLimit  = 5
	RecentBotLimit   = 5
	RecentPeriod     = 30 * 24 * time.Hour
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveReservationStatuses статусы, которые учитываются в ближайших бронированиях
var ActiveReservationStatuses = []ReservationStatus{
	ReservationStatusConfirmed,
	ReservationStatusPending,
}
