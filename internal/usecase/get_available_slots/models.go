package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
)

// Request модель запроса на получение слотов бота за день
type Request struct {
	Caller access.Caller
	BotID  int64
	Date   string // YYYY-MM-DD в часовом поясе сервиса
}

// Response модель ответа со списком слотов
type Response struct {
	Date            string
	BotID           int64
	DurationMinutes int
	Slots           []Slot
}

// Slot временной слот внутри окна расписания
type Slot struct {
	StartAt   time.Time
	EndAt     time.Time
	Available bool
}
