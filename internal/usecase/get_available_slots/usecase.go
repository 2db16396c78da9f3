package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	botRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/bot"
)

// UseCase use case для просмотра свободных слотов бота на день.
// Только чтение: создание бронирования расписание не проверяет.
type UseCase struct {
	botRepo         BotRepository
	scheduleRepo    ScheduleRepository
	reservationRepo ReservationRepository
	timeProvider    TimeProvider
	location        *time.Location
	slotDuration    time.Duration
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	botRepo BotRepository,
	scheduleRepo ScheduleRepository,
	reservationRepo ReservationRepository,
	location *time.Location,
	slotDuration time.Duration,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	if slotDuration <= 0 {
		slotDuration = domain.DefaultReservationDuration
	}

	return &UseCase{
		botRepo:         botRepo,
		scheduleRepo:    scheduleRepo,
		reservationRepo: reservationRepo,
		timeProvider:    &RealTimeProvider{},
		location:        location,
		slotDuration:    slotDuration,
		logger:          logger,
	}
}

// Execute возвращает слоты бота на дату
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, bot=%d, date=%s", req.Caller.UserID, req.BotID, req.Date)

	if req.BotID <= 0 {
		return nil, ErrInvalidBotID
	}

	period, err := domain.DayBounds(req.Date, uc.location)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid date %q", req.Date)
		return nil, err
	}

	scope := access.ResolveScope(req.Caller)

	// 1. Чужой бот выглядит как отсутствующий
	bot, err := uc.botRepo.GetByID(ctx, req.BotID, scope)
	if err != nil {
		if errors.Is(err, botRepo.ErrBotNotFound) {
			uc.logger.Warn("GetAvailableSlots: bot id=%d not found for user=%d", req.BotID, req.Caller.UserID)
			return nil, ErrBotNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get bot id=%d: %v", req.BotID, err)
		return nil, fmt.Errorf("%w: get bot: %v", ErrInternal, err)
	}

	// 2. Окна на день недели
	windows, err := uc.scheduleRepo.List(ctx, scope, domain.ScheduleFilter{BotID: &bot.ID})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list schedule for bot id=%d: %v", bot.ID, err)
		return nil, fmt.Errorf("%w: list schedule: %v", ErrInternal, err)
	}

	weekday := weekdayIndex(period.From)
	dayWindows := make([]*domain.ScheduleWindow, 0, len(windows))
	for _, w := range windows {
		if w.DayOfWeek == weekday {
			dayWindows = append(dayWindows, w)
		}
	}

	resp := &Response{
		Date:            req.Date,
		BotID:           bot.ID,
		DurationMinutes: int(uc.slotDuration / time.Minute),
		Slots:           generateTimeSlots(dayWindows, period.From, uc.slotDuration, uc.timeProvider.Now()),
	}
	if len(resp.Slots) == 0 {
		return resp, nil
	}

	// 3. Бронирования дня. Начало сдвинуто на сутки, чтобы учесть брони, начавшиеся накануне.
	from := period.From.AddDate(0, 0, -1)
	reservations, err := uc.reservationRepo.List(ctx, scope, domain.ReservationFilter{
		BotID: &bot.ID,
		From:  &from,
		To:    &period.To,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list reservations for bot id=%d: %v", bot.ID, err)
		return nil, fmt.Errorf("%w: list reservations: %v", ErrInternal, err)
	}

	markTaken(resp.Slots, reservations)

	uc.logger.Info("GetAvailableSlots: bot id=%d, date=%s, slots=%d", bot.ID, req.Date, len(resp.Slots))
	return resp, nil
}
