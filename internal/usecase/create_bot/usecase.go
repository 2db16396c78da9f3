package create_bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	botRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/bot"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
)

// UseCase use case для создания бота с проверкой квоты арендатора
type UseCase struct {
	tenantRepo TenantRepository
	botRepo    BotRepository
	txManager  TransactionManager
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepo TenantRepository,
	botRepo BotRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		tenantRepo: tenantRepo,
		botRepo:    botRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// Execute создает бота.
// Строка арендатора блокируется на время транзакции, поэтому подсчёт ботов и вставка
// конкурентных запросов выполняются по очереди и квота не может быть превышена.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBot: user=%d, tenant=%v, name=%q", req.Caller.UserID, req.TenantID, req.Name)

	// 1. Определяем арендатора
	tenantID, err := resolveTenant(req)
	if err != nil {
		uc.logger.Warn("CreateBot: cannot resolve tenant for user=%d: %v", req.Caller.UserID, err)
		return nil, err
	}

	// 2. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBot: validation failed: %v", err)
		return nil, err
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	var result *domain.Bot

	// 3. Проверка квоты и вставка в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		tenant, err := uc.tenantRepo.GetForUpdate(txCtx, tenantID)
		if err != nil {
			if errors.Is(err, tenantRepo.ErrTenantNotFound) {
				uc.logger.Warn("CreateBot: tenant id=%d not found", tenantID)
				return ErrTenantNotFound
			}
			uc.logger.Error("CreateBot: failed to lock tenant id=%d: %v", tenantID, err)
			return fmt.Errorf("%w: lock tenant: %v", ErrInternal, err)
		}

		count, err := uc.botRepo.CountByTenant(txCtx, tenantID)
		if err != nil {
			uc.logger.Error("CreateBot: failed to count bots of tenant id=%d: %v", tenantID, err)
			return fmt.Errorf("%w: count bots: %v", ErrInternal, err)
		}

		if !tenant.CanCreateBot(count) {
			if tenant.Status != domain.TenantStatusActive {
				uc.logger.Warn("CreateBot: tenant id=%d has status=%s", tenantID, tenant.Status)
				return ErrTenantNotActive
			}
			uc.logger.Warn("CreateBot: tenant id=%d reached quota %d/%d", tenantID, count, tenant.MaxBotsAllowed)
			return ErrQuotaExceeded
		}

		created, err := uc.botRepo.Create(txCtx, &domain.Bot{
			TenantID:        tenantID,
			Name:            strings.TrimSpace(req.Name),
			Description:     req.Description,
			SystemPrompt:    req.SystemPrompt,
			WhatsAppPhoneID: strings.TrimSpace(req.WhatsAppPhoneID),
			Enabled:         enabled,
		})
		if err != nil {
			if errors.Is(err, botRepo.ErrPhoneIDTaken) {
				uc.logger.Warn("CreateBot: whatsapp phone id %q already in use", req.WhatsAppPhoneID)
				return ErrPhoneIDTaken
			}
			uc.logger.Error("CreateBot: failed to create bot: %v", err)
			return fmt.Errorf("%w: create bot: %v", ErrInternal, err)
		}

		created.TenantName = tenant.Name
		created.TenantStatus = tenant.Status
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBot: successfully created bot id=%d for tenant id=%d", result.ID, tenantID)
	return fromDomain(result), nil
}
