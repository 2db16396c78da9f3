package bots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	botRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/bot"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-BotAdminService/internal/service/bots/models"
)

// Service сервис для работы с ботами
type Service struct {
	botRepo    BotRepository
	tenantRepo TenantRepository
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса ботов
func NewService(botRepo BotRepository, tenantRepo TenantRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		botRepo:    botRepo,
		tenantRepo: tenantRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// List возвращает ботов, видимых вызывающему.
// Пользователь без профиля арендатора получает пустой список.
func (s *Service) List(ctx context.Context, caller access.Caller, tenantID *int64) (*models.BotListResponse, error) {
	s.logger.Info("List: fetching bots for user=%d, tenant=%v", caller.UserID, tenantID)

	bots, err := s.botRepo.List(ctx, access.ResolveScope(caller), domain.BotFilter{TenantID: tenantID})
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", caller.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bots for user=%d", len(bots), caller.UserID)
	return models.FromDomainBotList(bots), nil
}

// GetByID получает бота; чужой бот выглядит как несуществующий
func (s *Service) GetByID(ctx context.Context, caller access.Caller, id int64) (*models.BotResponse, error) {
	s.logger.Info("GetByID: fetching bot id=%d for user=%d", id, caller.UserID)

	bot, err := s.get(ctx, caller, id, "GetByID")
	if err != nil {
		return nil, err
	}

	return models.FromDomainBot(bot), nil
}

// Update полностью заменяет редактируемые поля бота.
// Включить бота неактивного арендатора нельзя, флаг blocked меняет только администратор.
// Строка арендатора блокируется на время проверки, как и при смене его статуса,
// поэтому приостановка и включение бота не могут перемешаться.
func (s *Service) Update(ctx context.Context, caller access.Caller, id int64, req *models.UpdateBotRequest) (*models.BotResponse, error) {
	s.logger.Info("Update: updating bot id=%d by user=%d", id, caller.UserID)

	if err := validateUpdate(req); err != nil {
		s.logger.Warn("Update: invalid data for bot id=%d: %v", id, err)
		return nil, err
	}

	var updated *domain.Bot

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		bot, err := s.get(txCtx, caller, id, "Update")
		if err != nil {
			return err
		}

		tenant, err := s.tenantRepo.GetForUpdate(txCtx, bot.TenantID)
		if err != nil {
			if errors.Is(err, tenantRepo.ErrTenantNotFound) {
				s.logger.Warn("Update: tenant id=%d of bot id=%d disappeared", bot.TenantID, id)
				return ErrBotNotFound
			}
			s.logger.Error("Update: failed to lock tenant id=%d: %v", bot.TenantID, err)
			return fmt.Errorf("%w: Update - lock tenant: %v", ErrInternal, err)
		}

		// Перечитываем бота под блокировкой: смена статуса арендатора могла выключить его
		bot, err = s.get(txCtx, caller, id, "Update")
		if err != nil {
			return err
		}
		bot.TenantStatus = tenant.Status

		if req.Blocked != nil && *req.Blocked != bot.Blocked {
			if !caller.IsAdmin {
				s.logger.Warn("Update: user=%d tried to change blocked flag of bot id=%d", caller.UserID, id)
				return ErrBlockedAdminOnly
			}
			bot.Blocked = *req.Blocked
		}

		if req.Enabled && tenant.Status != domain.TenantStatusActive {
			s.logger.Warn("Update: cannot enable bot id=%d, tenant status=%s", id, tenant.Status)
			return ErrTenantNotActive
		}

		bot.Name = strings.TrimSpace(req.Name)
		bot.Description = req.Description
		bot.SystemPrompt = req.SystemPrompt
		bot.WhatsAppPhoneID = strings.TrimSpace(req.WhatsAppPhoneID)
		bot.Enabled = req.Enabled

		if err := s.botRepo.Update(txCtx, bot); err != nil {
			switch {
			case errors.Is(err, botRepo.ErrBotNotFound):
				s.logger.Warn("Update: bot id=%d disappeared during update", id)
				return ErrBotNotFound
			case errors.Is(err, botRepo.ErrPhoneIDTaken):
				s.logger.Warn("Update: whatsapp phone id %q already in use", bot.WhatsAppPhoneID)
				return ErrPhoneIDTaken
			}
			s.logger.Error("Update: repository error for bot id=%d: %v", id, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		updated = bot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated bot id=%d", id)
	return models.FromDomainBot(updated), nil
}

// Delete удаляет бота вместе с услугами, расписанием и бронированиями
func (s *Service) Delete(ctx context.Context, caller access.Caller, id int64) error {
	s.logger.Info("Delete: deleting bot id=%d by user=%d", id, caller.UserID)

	if _, err := s.get(ctx, caller, id, "Delete"); err != nil {
		return err
	}

	if err := s.botRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, botRepo.ErrBotNotFound) {
			return ErrBotNotFound
		}
		s.logger.Error("Delete: repository error for bot id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted bot id=%d", id)
	return nil
}

// ToggleBlock переключает блокировку бота арендатора. Только для администратора.
func (s *Service) ToggleBlock(ctx context.Context, caller access.Caller, tenantID, botID int64) (*models.ToggleBlockResponse, error) {
	s.logger.Info("ToggleBlock: bot id=%d of tenant id=%d by user=%d", botID, tenantID, caller.UserID)

	if err := access.RequireAdmin(caller); err != nil {
		s.logger.Warn("ToggleBlock: user=%d is not an administrator", caller.UserID)
		return nil, err
	}

	blocked, err := s.botRepo.ToggleBlocked(ctx, tenantID, botID)
	if err != nil {
		if errors.Is(err, botRepo.ErrBotNotFound) {
			s.logger.Warn("ToggleBlock: bot id=%d not found for tenant id=%d", botID, tenantID)
			return nil, ErrBotNotFound
		}
		s.logger.Error("ToggleBlock: repository error for bot id=%d: %v", botID, err)
		return nil, fmt.Errorf("%w: ToggleBlock - repository error: %v", ErrInternal, err)
	}

	bot, err := s.get(ctx, caller, botID, "ToggleBlock")
	if err != nil {
		return nil, err
	}

	message := "bot unblocked"
	if blocked {
		message = "bot blocked"
	}

	s.logger.Info("ToggleBlock: bot id=%d blocked=%t", botID, blocked)
	return &models.ToggleBlockResponse{
		BotID:       botID,
		Blocked:     blocked,
		Operational: bot.IsOperational(),
		Message:     message,
	}, nil
}

func (s *Service) get(ctx context.Context, caller access.Caller, id int64, op string) (*domain.Bot, error) {
	bot, err := s.botRepo.GetByID(ctx, id, access.ResolveScope(caller))
	if err != nil {
		if errors.Is(err, botRepo.ErrBotNotFound) {
			s.logger.Warn("%s: bot id=%d not found for user=%d", op, id, caller.UserID)
			return nil, ErrBotNotFound
		}
		s.logger.Error("%s: repository error for bot id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return bot, nil
}

func validateUpdate(req *models.UpdateBotRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name is required and must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	phoneID := strings.TrimSpace(req.WhatsAppPhoneID)
	if phoneID == "" || utf8.RuneCountInString(phoneID) > domain.MaxPhoneIDLength {
		return fmt.Errorf("%w: whatsapp_phone_id is required and must be at most %d characters",
			ErrInvalidInput, domain.MaxPhoneIDLength)
	}
	return nil
}
