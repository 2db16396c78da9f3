package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	getAvailableSlots "github.com/m04kA/SMC-BotAdminService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	BotID           int64           `json:"bot_id"`
	DurationMinutes int             `json:"duration_minutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	StartAt   time.Time `json:"start_at"`
	Available bool      `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartAt.Format("15:04"),
			EndTime:   slot.EndAt.Format("15:04"),
			StartAt:   slot.StartAt,
			Available: slot.Available,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date,
		BotID:           resp.BotID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров пути и query
func ToUseCaseRequest(caller access.Caller, botID int64, date string) *getAvailableSlots.Request {
	return &getAvailableSlots.Request{
		Caller: caller,
		BotID:  botID,
		Date:   date,
	}
}
