package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	botRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/bot"
	catalogRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/reservation"
)

// UseCase use case для создания бронирования
type UseCase struct {
	botRepo         BotRepository
	serviceRepo     ServiceRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	location        *time.Location
	defaultDuration time.Duration
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// location часовой пояс для пары дата+время, defaultDuration длительность, если конец не указан.
func NewUseCase(
	botRepo BotRepository,
	serviceRepo ServiceRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	location *time.Location,
	defaultDuration time.Duration,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	if defaultDuration <= 0 {
		defaultDuration = domain.DefaultReservationDuration
	}

	return &UseCase{
		botRepo:         botRepo,
		serviceRepo:     serviceRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		location:        location,
		defaultDuration: defaultDuration,
		logger:          logger,
	}
}

// Execute создает бронирование.
// Занятость слота проверяет уникальное ограничение (bot_id, start_at) в БД,
// поэтому из конкурентных запросов на один слот успешен только первый.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, bot=%d, service=%v", req.Caller.UserID, req.BotID, req.ServiceID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	slot, err := req.Slot.Resolve(uc.location, uc.defaultDuration)
	if err != nil {
		uc.logger.Warn("CreateReservation: invalid slot: %v", err)
		return nil, err
	}

	status, err := resolveStatus(req.Status)
	if err != nil {
		uc.logger.Warn("CreateReservation: invalid status %q", req.Status)
		return nil, err
	}

	var created *domain.Reservation

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Бот должен существовать и принадлежать вызывающему
		bot, err := uc.botRepo.GetByID(txCtx, req.BotID, access.Unrestricted())
		if err != nil {
			if errors.Is(err, botRepo.ErrBotNotFound) {
				uc.logger.Warn("CreateReservation: bot id=%d not found", req.BotID)
				return ErrBotNotFound
			}
			uc.logger.Error("CreateReservation: failed to get bot id=%d: %v", req.BotID, err)
			return fmt.Errorf("%w: get bot: %v", ErrInternal, err)
		}
		if err := access.Authorize(req.Caller, bot.TenantID); err != nil {
			uc.logger.Warn("CreateReservation: user=%d has no access to bot id=%d", req.Caller.UserID, req.BotID)
			return err
		}

		// 3. Услуга, если указана, должна относиться к тому же боту
		var serviceName *string
		if req.ServiceID != nil {
			service, err := uc.serviceRepo.GetByID(txCtx, *req.ServiceID, access.Unrestricted())
			if err != nil {
				if errors.Is(err, catalogRepo.ErrServiceNotFound) {
					uc.logger.Warn("CreateReservation: service id=%d not found", *req.ServiceID)
					return ErrServiceNotFound
				}
				uc.logger.Error("CreateReservation: failed to get service id=%d: %v", *req.ServiceID, err)
				return fmt.Errorf("%w: get service: %v", ErrInternal, err)
			}
			if service.BotID != bot.ID {
				uc.logger.Warn("CreateReservation: service id=%d belongs to bot id=%d, not %d",
					service.ID, service.BotID, bot.ID)
				return ErrServiceBotMismatch
			}
			serviceName = &service.Name
		}

		// 4. Вставка
		res, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			BotID:         bot.ID,
			ServiceID:     req.ServiceID,
			CustomerName:  strings.TrimSpace(req.CustomerName),
			CustomerPhone: strings.TrimSpace(req.CustomerPhone),
			StartAt:       slot.StartAt,
			EndAt:         slot.EndAt,
			Status:        status,
			Notes:         req.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, reservationRepo.ErrSlotTaken):
				uc.logger.Warn("CreateReservation: slot bot=%d start=%s already booked",
					bot.ID, slot.StartAt.Format(time.RFC3339))
				return ErrSlotTaken
			case errors.Is(err, reservationRepo.ErrInvalidRange):
				return domain.ErrSlotInvalidRange
			case errors.Is(err, reservationRepo.ErrReferenceNotFound):
				uc.logger.Warn("CreateReservation: bot id=%d or service %v disappeared", bot.ID, req.ServiceID)
				return ErrBotNotFound
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: create reservation: %v", ErrInternal, err)
		}

		res.BotName = bot.Name
		res.TenantID = bot.TenantID
		res.ServiceName = serviceName
		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d for bot id=%d", created.ID, created.BotID)
	return fromDomain(created, uc.timeProvider.Now()), nil
}
