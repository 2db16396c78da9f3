package models

import (
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	"github.com/m04kA/SMC-BotAdminService/pkg/types"
)

// ScheduleRequest создание или полная замена окна расписания
type ScheduleRequest struct {
	BotID     int64            `json:"bot_id"`
	DayOfWeek int              `json:"day_of_week"` // 0 = понедельник
	StartTime types.TimeString `json:"start_time"`  // "09:00"
	EndTime   types.TimeString `json:"end_time"`    // "18:00"
}

// ScheduleResponse окно расписания
type ScheduleResponse struct {
	ID        int64            `json:"id"`
	BotID     int64            `json:"bot_id"`
	DayOfWeek int              `json:"day_of_week"`
	DayName   string           `json:"day_name"`
	StartTime types.TimeString `json:"start_time"`
	EndTime   types.TimeString `json:"end_time"`
}

// ScheduleListResponse список окон
type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Total     int                `json:"total"`
}

var dayNames = [...]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DayName название дня недели
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return ""
	}
	return dayNames[day]
}

// ToDomain конвертирует запрос в окно расписания
func (r *ScheduleRequest) ToDomain() *domain.ScheduleWindow {
	return &domain.ScheduleWindow{
		BotID:     r.BotID,
		DayOfWeek: r.DayOfWeek,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

// FromDomainSchedule конвертирует окно в ответ
func FromDomainSchedule(w *domain.ScheduleWindow) *ScheduleResponse {
	return &ScheduleResponse{
		ID:        w.ID,
		BotID:     w.BotID,
		DayOfWeek: w.DayOfWeek,
		DayName:   DayName(w.DayOfWeek),
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
	}
}

// FromDomainScheduleList конвертирует список окон
func FromDomainScheduleList(windows []*domain.ScheduleWindow) *ScheduleListResponse {
	resp := &ScheduleListResponse{Schedules: make([]ScheduleResponse, 0, len(windows)), Total: len(windows)}
	for _, w := range windows {
		resp.Schedules = append(resp.Schedules, *FromDomainSchedule(w))
	}
	return resp
}
