package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BotAdminService/pkg/types"
)

var (
	// ErrSlotStartMissing не указано ни время начала, ни пара дата+время
	ErrSlotStartMissing = fmt.Errorf("%w: slot: start or date and time required", ErrValidation)

	// ErrSlotInvalidDate дата не в формате YYYY-MM-DD
	ErrSlotInvalidDate = fmt.Errorf("%w: slot: invalid date, expected YYYY-MM-DD", ErrValidation)

	// ErrSlotInvalidTime время не в формате HH:MM
	ErrSlotInvalidTime = fmt.Errorf("%w: slot: invalid time, expected HH:MM", ErrValidation)

	// ErrSlotInvalidRange окончание не позже начала
	ErrSlotInvalidRange = fmt.Errorf("%w: slot: end must be after start", ErrValidation)
)

// SlotInput время бронирования в том виде, в котором его прислал клиент.
// Либо Start, либо Date+Time (в часовом поясе бронирований). End необязателен.
type SlotInput struct {
	Start *time.Time
	Date  string
	Time  string
	End   *time.Time
}

// Slot разрешённый интервал бронирования
type Slot struct {
	StartAt time.Time
	EndAt   time.Time
}

// Duration длительность слота
func (s Slot) Duration() time.Duration {
	return s.EndAt.Sub(s.StartAt)
}

// Resolve вычисляет начало и конец слота.
// Если конец не указан, он равен началу плюс defaultDuration.
func (in SlotInput) Resolve(loc *time.Location, defaultDuration time.Duration) (Slot, error) {
	var start time.Time

	switch {
	case in.Start != nil:
		start = *in.Start
	case strings.TrimSpace(in.Date) != "" && strings.TrimSpace(in.Time) != "":
		day, err := time.ParseInLocation(DateFormat, strings.TrimSpace(in.Date), loc)
		if err != nil {
			return Slot{}, ErrSlotInvalidDate
		}
		clock, err := types.NewTimeStringFromString(strings.TrimSpace(in.Time))
		if err != nil {
			return Slot{}, ErrSlotInvalidTime
		}
		start = time.Date(day.Year(), day.Month(), day.Day(), 0, clock.Minutes(), 0, 0, loc)
	default:
		return Slot{}, ErrSlotStartMissing
	}

	end := start.Add(defaultDuration)
	if in.End != nil {
		end = *in.End
	}
	if !end.After(start) {
		return Slot{}, ErrSlotInvalidRange
	}

	return Slot{StartAt: start.UTC(), EndAt: end.UTC()}, nil
}

// DayBounds календарный день date в часовом поясе loc как интервал [начало дня, начало следующего)
func DayBounds(date string, loc *time.Location) (Period, error) {
	day, err := time.ParseInLocation(DateFormat, strings.TrimSpace(date), loc)
	if err != nil {
		return Period{}, ErrSlotInvalidDate
	}
	return Period{From: day, To: day.AddDate(0, 0, 1)}, nil
}
