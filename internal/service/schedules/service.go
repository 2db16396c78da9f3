package schedules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	botRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/bot"
	scheduleRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BotAdminService/internal/service/schedules/models"
)

// Service сервис рабочих окон ботов.
// Окна носят информационный характер, бронирования по ним не проверяются.
type Service struct {
	scheduleRepo ScheduleRepository
	botRepo      BotRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(scheduleRepo ScheduleRepository, botRepo BotRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		botRepo:      botRepo,
		logger:       logger,
	}
}

// List возвращает окна, видимые вызывающему
func (s *Service) List(ctx context.Context, caller access.Caller, botID *int64) (*models.ScheduleListResponse, error) {
	s.logger.Info("List: fetching schedule windows for user=%d, bot=%v", caller.UserID, botID)

	windows, err := s.scheduleRepo.List(ctx, access.ResolveScope(caller), domain.ScheduleFilter{BotID: botID})
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", caller.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d windows for user=%d", len(windows), caller.UserID)
	return models.FromDomainScheduleList(windows), nil
}

// GetByID получает окно расписания
func (s *Service) GetByID(ctx context.Context, caller access.Caller, id int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetByID: fetching schedule window id=%d for user=%d", id, caller.UserID)

	window, err := s.get(ctx, caller, id, "GetByID")
	if err != nil {
		return nil, err
	}

	return models.FromDomainSchedule(window), nil
}

// Create создает окно расписания
func (s *Service) Create(ctx context.Context, caller access.Caller, req *models.ScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Create: creating window day=%d %s-%s for bot=%d by user=%d",
		req.DayOfWeek, req.StartTime, req.EndTime, req.BotID, caller.UserID)

	if err := validateRequest(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkBotAccess(ctx, caller, req.BotID, "Create"); err != nil {
		return nil, err
	}

	created, err := s.scheduleRepo.Create(ctx, req.ToDomain())
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBotNotFound) {
			return nil, ErrBotNotFound
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created window id=%d", created.ID)
	return models.FromDomainSchedule(created), nil
}

// Update полностью заменяет окно расписания
func (s *Service) Update(ctx context.Context, caller access.Caller, id int64, req *models.ScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: updating window id=%d by user=%d", id, caller.UserID)

	if err := validateRequest(req); err != nil {
		s.logger.Warn("Update: validation failed for window id=%d: %v", id, err)
		return nil, err
	}

	if _, err := s.get(ctx, caller, id, "Update"); err != nil {
		return nil, err
	}

	if err := s.checkBotAccess(ctx, caller, req.BotID, "Update"); err != nil {
		return nil, err
	}

	window := req.ToDomain()
	window.ID = id

	if err := s.scheduleRepo.Update(ctx, window); err != nil {
		switch {
		case errors.Is(err, scheduleRepo.ErrWindowNotFound):
			return nil, ErrWindowNotFound
		case errors.Is(err, scheduleRepo.ErrBotNotFound):
			return nil, ErrBotNotFound
		}
		s.logger.Error("Update: repository error for window id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated window id=%d", id)
	return models.FromDomainSchedule(window), nil
}

// Delete удаляет окно расписания
func (s *Service) Delete(ctx context.Context, caller access.Caller, id int64) error {
	s.logger.Info("Delete: deleting window id=%d by user=%d", id, caller.UserID)

	if _, err := s.get(ctx, caller, id, "Delete"); err != nil {
		return err
	}

	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrWindowNotFound) {
			return ErrWindowNotFound
		}
		s.logger.Error("Delete: repository error for window id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted window id=%d", id)
	return nil
}

func (s *Service) get(ctx context.Context, caller access.Caller, id int64, op string) (*domain.ScheduleWindow, error) {
	window, err := s.scheduleRepo.GetByID(ctx, id, access.ResolveScope(caller))
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrWindowNotFound) {
			s.logger.Warn("%s: window id=%d not found for user=%d", op, id, caller.UserID)
			return nil, ErrWindowNotFound
		}
		s.logger.Error("%s: repository error for window id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return window, nil
}

func (s *Service) checkBotAccess(ctx context.Context, caller access.Caller, botID int64, op string) error {
	bot, err := s.botRepo.GetByID(ctx, botID, access.Unrestricted())
	if err != nil {
		if errors.Is(err, botRepo.ErrBotNotFound) {
			s.logger.Warn("%s: bot id=%d not found", op, botID)
			return ErrBotNotFound
		}
		s.logger.Error("%s: failed to get bot id=%d: %v", op, botID, err)
		return fmt.Errorf("%w: %s - get bot: %v", ErrInternal, op, err)
	}

	if err := access.Authorize(caller, bot.TenantID); err != nil {
		s.logger.Warn("%s: user=%d has no access to bot id=%d", op, caller.UserID, botID)
		return err
	}

	return nil
}

func validateRequest(req *models.ScheduleRequest) error {
	if req.BotID <= 0 {
		return fmt.Errorf("%w: bot_id is required", ErrInvalidInput)
	}
	if req.DayOfWeek < domain.MinDayOfWeek || req.DayOfWeek > domain.MaxDayOfWeek {
		return ErrInvalidDay
	}
	if !req.EndTime.IsAfter(req.StartTime) {
		return ErrInvalidTimeRange
	}
	return nil
}
