package get_available_slots

import (
	"context"

	getAvailableSlots "github.com/m04kA/SMC-BotAdminService/internal/usecase/get_available_slots"
)

// SlotsUseCase расчёт слотов бота на день
type SlotsUseCase interface {
	Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
