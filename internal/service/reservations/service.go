package reservations

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
	"github.com/m04kA/SMC-BotAdminService/internal/service/reservations/models"
)

// Options параметры бронирований из конфигурации
type Options struct {
	Location        *time.Location
	DefaultDuration time.Duration
	// EnforceCancellationWindow запрещает не-администратору отмену позже чем за 24 часа до начала
	EnforceCancellationWindow bool
}

// Service сервис журнала бронирований (всё, кроме создания)
type Service struct {
	reservationRepo ReservationRepository
	botRepo         BotRepository
	serviceRepo     ServiceRepository
	timeProvider    TimeProvider
	opts            Options
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	botRepo BotRepository,
	serviceRepo ServiceRepository,
	opts Options,
	logger Logger,
) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = domain.DefaultReservationDuration
	}

	return &Service{
		reservationRepo: reservationRepo,
		botRepo:         botRepo,
		serviceRepo:     serviceRepo,
		timeProvider:    &RealTimeProvider{},
		opts:            opts,
		logger:          logger,
	}
}

// List возвращает бронирования, видимые вызывающему, от поздних к ранним.
// Фильтр по дате сравнивает календарный день начала в часовом поясе бронирований.
func (s *Service) List(ctx context.Context, caller access.Caller, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("List: fetching reservations for user=%d, date=%v, bot=%v, status=%v",
		caller.UserID, req.Date, req.BotID, req.Status)

	filter := domain.ReservationFilter{BotID: req.BotID}

	if req.Date != nil {
		day, err := domain.DayBounds(*req.Date, s.opts.Location)
		if err != nil {
			s.logger.Warn("List: invalid date=%q", *req.Date)
			return nil, err
		}
		filter.From = &day.From
		filter.To = &day.To
	}

	if req.Status != nil {
		status, err := domain.ParseReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%q", *req.Status)
			return nil, err
		}
		filter.Status = &status
	}

	list, err := s.reservationRepo.List(ctx, access.ResolveScope(caller), filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", caller.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d reservations for user=%d", len(list), caller.UserID)
	return models.FromDomainReservationList(list, s.timeProvider.Now()), nil
}

// GetByID получает бронирование
func (s *Service) GetByID(ctx context.Context, caller access.Caller, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, caller.UserID)

	res, err := s.get(ctx, caller, id, "GetByID")
	if err != nil {
		return nil, err
	}

	return models.FromDomainReservation(res, s.timeProvider.Now()), nil
}

// Replace полностью заменяет бронирование с теми же проверками, что и создание.
// Статус может быть любым допустимым. Отмена подчиняется тому же окну, что и в UpdateStatus.
func (s *Service) Replace(ctx context.Context, caller access.Caller, id int64, req *models.ReservationRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Replace: replacing reservation id=%d by user=%d", id, caller.UserID)

	if err := domain.ValidateCustomer(req.CustomerName, req.CustomerPhone, req.Notes); err != nil {
		s.logger.Warn("Replace: validation failed for reservation id=%d: %v", id, err)
		return nil, err
	}

	slot, err := req.Slot().Resolve(s.opts.Location, s.opts.DefaultDuration)
	if err != nil {
		s.logger.Warn("Replace: invalid slot for reservation id=%d: %v", id, err)
		return nil, err
	}

	status := domain.ReservationStatusConfirmed
	if strings.TrimSpace(req.Status) != "" {
		status, err = domain.ParseReservationStatus(req.Status)
		if err != nil {
			s.logger.Warn("Replace: invalid status=%q", req.Status)
			return nil, err
		}
	}

	existing, err := s.get(ctx, caller, id, "Replace")
	if err != nil {
		return nil, err
	}

	// окно считается от текущего начала, а не от нового
	if err := s.checkCancellation(caller, existing, status, s.timeProvider.Now(), "Replace"); err != nil {
		return nil, err
	}

	bot, err := s.checkBotAccess(ctx, caller, req.BotID)
	if err != nil {
		return nil, err
	}

	var serviceName *string
	if req.ServiceID != nil {
		service, err := s.serviceRepo.GetByID(ctx, *req.ServiceID, access.Unrestricted())
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				s.logger.Warn("Replace: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Replace: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: Replace - get service: %v", ErrInternal, err)
		}
		if service.BotID != bot.ID {
			s.logger.Warn("Replace: service id=%d does not belong to bot id=%d", service.ID, bot.ID)
			return nil, ErrServiceBotMismatch
		}
		serviceName = &service.Name
	}

	existing.BotID = bot.ID
	existing.BotName = bot.Name
	existing.TenantID = bot.TenantID
	existing.ServiceID = req.ServiceID
	existing.ServiceName = serviceName
	existing.CustomerName = strings.TrimSpace(req.CustomerName)
	existing.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	existing.StartAt = slot.StartAt
	existing.EndAt = slot.EndAt
	existing.Status = status
	existing.Notes = req.Notes

	if err := s.reservationRepo.Update(ctx, existing); err != nil {
		switch {
		case errors.Is(err, reservationRepo.ErrReservationNotFound):
			return nil, ErrReservationNotFound
		case errors.Is(err, reservationRepo.ErrSlotTaken):
			s.logger.Warn("Replace: slot bot=%d start=%s already booked", bot.ID, slot.StartAt.Format(time.RFC3339))
			return nil, ErrSlotTaken
		case errors.Is(err, reservationRepo.ErrInvalidRange):
			return nil, domain.ErrSlotInvalidRange
		case errors.Is(err, reservationRepo.ErrReferenceNotFound):
			return nil, ErrBotNotFound
		}
		s.logger.Error("Replace: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Replace - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Replace: successfully replaced reservation id=%d", id)
	return models.FromDomainReservation(existing, s.timeProvider.Now()), nil
}

// UpdateStatus меняет только статус бронирования.
// Отмена внутри 24-часового окна запрещена не-администратору, если включена соответствующая политика.
func (s *Service) UpdateStatus(ctx context.Context, caller access.Caller, id int64, req *models.UpdateStatusRequest) (*models.ReservationResponse, error) {
	s.logger.Info("UpdateStatus: reservation id=%d to status=%q by user=%d", id, req.Status, caller.UserID)

	status, err := domain.ParseReservationStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%q for reservation id=%d", req.Status, id)
		return nil, err
	}

	res, err := s.get(ctx, caller, id, "UpdateStatus")
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()

	if err := s.checkCancellation(caller, res, status, now, "UpdateStatus"); err != nil {
		return nil, err
	}

	if err := s.reservationRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("UpdateStatus: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	res.Status = status
	res.UpdatedAt = now

	s.logger.Info("UpdateStatus: successfully updated reservation id=%d to status=%s", id, status)
	return models.FromDomainReservation(res, now), nil
}

// Delete удаляет бронирование
func (s *Service) Delete(ctx context.Context, caller access.Caller, id int64) error {
	s.logger.Info("Delete: deleting reservation id=%d by user=%d", id, caller.UserID)

	if _, err := s.get(ctx, caller, id, "Delete"); err != nil {
		return err
	}

	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("Delete: repository error for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted reservation id=%d", id)
	return nil
}

// checkCancellation запрещает не-администратору отменять бронирование внутри 24-часового окна
func (s *Service) checkCancellation(caller access.Caller, res *domain.Reservation, status domain.ReservationStatus, now time.Time, op string) error {
	if status != domain.ReservationStatusCancelled ||
		res.Status == domain.ReservationStatusCancelled ||
		!s.opts.EnforceCancellationWindow ||
		caller.IsAdmin ||
		res.IsCancellable(now) {
		return nil
	}

	s.logger.Warn("%s: reservation id=%d starts at %s, cancellation window closed",
		op, res.ID, res.StartAt.Format(time.RFC3339))
	return ErrCancellationWindow
}

func (s *Service) get(ctx context.Context, caller access.Caller, id int64, op string) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id, access.ResolveScope(caller))
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%d not found for user=%d", op, id, caller.UserID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return res, nil
}

func (s *Service) checkBotAccess(ctx context.Context, caller access.Caller, botID int64) (*domain.Bot, error) {
	bot, err := s.botRepo.GetByID(ctx, botID, access.Unrestricted())
	if err != nil {
		if errors.Is(err, botRepo.ErrBotNotFound) {
			s.logger.Warn("checkBotAccess: bot id=%d not found", botID)
			return nil, ErrBotNotFound
		}
		s.logger.Error("checkBotAccess: failed to get bot id=%d: %v", botID, err)
		return nil, fmt.Errorf("%w: checkBotAccess - get bot: %v", ErrInternal, err)
	}

	if err := access.Authorize(caller, bot.TenantID); err != nil {
		s.logger.Warn("checkBotAccess: user=%d has no access to bot id=%d", caller.UserID, botID)
		return nil, err
	}

	return bot, nil
}
