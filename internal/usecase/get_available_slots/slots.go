package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// weekdayIndex день недели в нумерации расписания (0 = понедельник)
func weekdayIndex(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

// generateTimeSlots нарезает окна расписания на слоты фиксированной длительности.
// Слот, выходящий за конец окна, отбрасывается. Слоты, начавшиеся до now, не возвращаются.
func generateTimeSlots(windows []*domain.ScheduleWindow, day time.Time, step time.Duration, now time.Time) []Slot {
	slots := make([]Slot, 0)
	seen := make(map[int64]struct{})

	for _, w := range windows {
		windowStart := wallClock(day, w.StartTime.Minutes())
		windowEnd := wallClock(day, w.EndTime.Minutes())

		for start := windowStart; !start.Add(step).After(windowEnd); start = start.Add(step) {
			if start.Before(now) {
				continue
			}
			// окна могут пересекаться
			if _, ok := seen[start.Unix()]; ok {
				continue
			}
			seen[start.Unix()] = struct{}{}
			slots = append(slots, Slot{StartAt: start, EndAt: start.Add(step), Available: true})
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].StartAt.Before(slots[j].StartAt) })
	return slots
}

// wallClock время суток на дату day в её часовом поясе.
// В дни перехода на летнее время day.Add сдвинул бы слоты на час.
func wallClock(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minutes, 0, 0, day.Location())
}

// markTaken помечает занятыми слоты, пересекающиеся с действующими бронированиями
func markTaken(slots []Slot, reservations []*domain.Reservation) {
	for i := range slots {
		if countOverlapping(slots[i], reservations) > 0 {
			slots[i].Available = false
		}
	}
}

// countOverlapping считает бронирования, реально пересекающиеся со слотом.
// Отменённые не учитываются. Соседние интервалы (конец одного равен началу другого) не пересекаются:
//   - слот 11:00-12:00, бронь 11:30-12:30 пересекается
//   - слот 11:00-12:00, бронь 12:00-13:00 не пересекается
func countOverlapping(slot Slot, reservations []*domain.Reservation) int {
	count := 0
	for _, res := range reservations {
		if res.Status == domain.ReservationStatusCancelled {
			continue
		}
		if res.StartAt.Before(slot.EndAt) && res.EndAt.After(slot.StartAt) {
			count++
		}
	}
	return count
}
