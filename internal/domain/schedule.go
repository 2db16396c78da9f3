package domain

import "github.com/m04kA/SMC-BotAdminService/pkg/types"

// ScheduleWindow рабочее окно бота в конкретный день недели (0 = понедельник).
// Носит информационный характер, при создании бронирования не проверяется.
type ScheduleWindow struct {
	ID        int64
	BotID     int64
	DayOfWeek int
	StartTime types.TimeString
	EndTime   types.TimeString
}

// ScheduleFilter параметры списка окон расписания
type ScheduleFilter struct {
	BotID *int64
}
