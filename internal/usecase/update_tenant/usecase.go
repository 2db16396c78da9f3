package update_tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
)

// UseCase use case для изменения арендатора: данные, статус, лимит ботов
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

// Execute применяет изменения к арендатору.
// Строка арендатора заблокирована до конца транзакции: лимит нельзя опустить ниже
// числа ботов, созданных конкурентно, а перевод в suspended/inactive выключает всех
// ботов в той же транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateTenant: user=%d, tenant=%d, status=%v, max_bots=%v",
		req.Caller.UserID, req.TenantID, req.Status, req.MaxBotsAllowed)

	if err := access.RequireAdmin(req.Caller); err != nil {
		uc.logger.Warn("UpdateTenant: user=%d is not an administrator", req.Caller.UserID)
		return nil, err
	}

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateTenant: validation failed for tenant id=%d: %v", req.TenantID, err)
		return nil, err
	}

	var result *Response

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		tenant, err := uc.tenantRepo.GetForUpdate(txCtx, req.TenantID)
		if err != nil {
			if errors.Is(err, tenantRepo.ErrTenantNotFound) {
				uc.logger.Warn("UpdateTenant: tenant id=%d not found", req.TenantID)
				return ErrTenantNotFound
			}
			uc.logger.Error("UpdateTenant: failed to lock tenant id=%d: %v", req.TenantID, err)
			return fmt.Errorf("%w: lock tenant: %v", ErrInternal, err)
		}

		count, err := uc.botRepo.CountByTenant(txCtx, tenant.ID)
		if err != nil {
			uc.logger.Error("UpdateTenant: failed to count bots of tenant id=%d: %v", tenant.ID, err)
			return fmt.Errorf("%w: count bots: %v", ErrInternal, err)
		}

		if req.MaxBotsAllowed != nil && *req.MaxBotsAllowed < count {
			uc.logger.Warn("UpdateTenant: tenant id=%d has %d bots, requested limit %d",
				tenant.ID, count, *req.MaxBotsAllowed)
			return fmt.Errorf("%w: tenant has %d bots", ErrBotLimitBelowCount, count)
		}

		apply(tenant, req)

		if err := uc.tenantRepo.Update(txCtx, tenant); err != nil {
			switch {
			case errors.Is(err, tenantRepo.ErrTenantNotFound):
				return ErrTenantNotFound
			case errors.Is(err, tenantRepo.ErrConstraint):
				uc.logger.Warn("UpdateTenant: constraint violated for tenant id=%d: %v", tenant.ID, err)
				return ErrInvalidStatus
			}
			uc.logger.Error("UpdateTenant: failed to update tenant id=%d: %v", tenant.ID, err)
			return fmt.Errorf("%w: update tenant: %v", ErrInternal, err)
		}

		var disabled int64
		if tenant.Status.DisablesBots() {
			disabled, err = uc.botRepo.DisableAllByTenant(txCtx, tenant.ID)
			if err != nil {
				uc.logger.Error("UpdateTenant: failed to disable bots of tenant id=%d: %v", tenant.ID, err)
				return fmt.Errorf("%w: disable bots: %v", ErrInternal, err)
			}
			uc.logger.Info("UpdateTenant: tenant id=%d is %s, disabled %d bots", tenant.ID, tenant.Status, disabled)
		}

		result = fromDomain(tenant, count, disabled)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateTenant: successfully updated tenant id=%d", req.TenantID)
	return result, nil
}
