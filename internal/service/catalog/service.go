package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	botRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/bot"
	catalogRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BotAdminService/internal/service/catalog/models"
)

// Service сервис каталога услуг ботов
type Service struct {
	serviceRepo ServiceRepository
	botRepo     BotRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, botRepo BotRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		botRepo:     botRepo,
		logger:      logger,
	}
}

// List возвращает услуги, видимые вызывающему, опционально по одному боту
func (s *Service) List(ctx context.Context, caller access.Caller, botID *int64) (*models.ServiceListResponse, error) {
	s.logger.Info("List: fetching services for user=%d, bot=%v", caller.UserID, botID)

	services, err := s.serviceRepo.List(ctx, access.ResolveScope(caller), domain.ServiceFilter{BotID: botID})
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", caller.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d services for user=%d", len(services), caller.UserID)
	return models.FromDomainServiceList(services), nil
}

// GetByID получает услугу
func (s *Service) GetByID(ctx context.Context, caller access.Caller, id int64) (*models.ServiceResponse, error) {
	s.logger.Info("GetByID: fetching service id=%d for user=%d", id, caller.UserID)

	service, err := s.get(ctx, caller, id, "GetByID")
	if err != nil {
		return nil, err
	}

	return models.FromDomainService(service), nil
}

// Create создает услугу у бота вызывающего
func (s *Service) Create(ctx context.Context, caller access.Caller, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service %q for bot=%d by user=%d", req.Name, req.BotID, caller.UserID)

	if err := validateRequest(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkBotAccess(ctx, caller, req.BotID, "Create"); err != nil {
		return nil, err
	}

	service := req.ToDomain()
	service.Name = strings.TrimSpace(service.Name)

	created, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrBotNotFound) {
			return nil, ErrBotNotFound
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created service id=%d", created.ID)
	return models.FromDomainService(created), nil
}

// Update полностью заменяет услугу. Новый бот тоже должен принадлежать вызывающему.
func (s *Service) Update(ctx context.Context, caller access.Caller, id int64, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d by user=%d", id, caller.UserID)

	if err := validateRequest(req); err != nil {
		s.logger.Warn("Update: validation failed for service id=%d: %v", id, err)
		return nil, err
	}

	if _, err := s.get(ctx, caller, id, "Update"); err != nil {
		return nil, err
	}

	if err := s.checkBotAccess(ctx, caller, req.BotID, "Update"); err != nil {
		return nil, err
	}

	service := req.ToDomain()
	service.ID = id
	service.Name = strings.TrimSpace(service.Name)

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		switch {
		case errors.Is(err, catalogRepo.ErrServiceNotFound):
			return nil, ErrServiceNotFound
		case errors.Is(err, catalogRepo.ErrBotNotFound):
			return nil, ErrBotNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated service id=%d", id)
	return models.FromDomainService(service), nil
}

// Delete удаляет услугу; у бронирований ссылка на неё обнуляется
func (s *Service) Delete(ctx context.Context, caller access.Caller, id int64) error {
	s.logger.Info("Delete: deleting service id=%d by user=%d", id, caller.UserID)

	if _, err := s.get(ctx, caller, id, "Delete"); err != nil {
		return err
	}

	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("Delete: repository error for service id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted service id=%d", id)
	return nil
}

func (s *Service) get(ctx context.Context, caller access.Caller, id int64, op string) (*domain.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id, access.ResolveScope(caller))
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("%s: service id=%d not found for user=%d", op, id, caller.UserID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("%s: repository error for service id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return service, nil
}

// checkBotAccess бот из тела запроса: нет такого - NotFound, чужой - отказ в доступе
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

func validateRequest(req *models.ServiceRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name is required and must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if req.BotID <= 0 {
		return fmt.Errorf("%w: bot_id is required", ErrInvalidInput)
	}
	if req.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
