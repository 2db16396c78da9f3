package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-BotAdminService/internal/service/dashboard/models"
)

// Service агрегатор панели управления. Только чтение, без кеширования.
type Service struct {
	statsRepo    StatsRepository
	tenantRepo   TenantRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса панели управления
func NewService(
	statsRepo StatsRepository,
	tenantRepo TenantRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		statsRepo:    statsRepo,
		tenantRepo:   tenantRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// AdminSnapshot сводка по всей платформе
func (s *Service) AdminSnapshot(ctx context.Context, caller access.Caller) (*models.AdminSnapshotResponse, error) {
	s.logger.Info("AdminSnapshot: building snapshot for user=%d", caller.UserID)

	if err := access.RequireAdmin(caller); err != nil {
		s.logger.Warn("AdminSnapshot: user=%d is not an administrator", caller.UserID)
		return nil, err
	}

	now := s.timeProvider.Now()

	// Счётчики снимаются в одной read-only транзакции и согласованы между собой
	var snapshot *domain.AdminSnapshot
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		snapshot, err = s.statsRepo.AdminSnapshot(txCtx, domain.NewSnapshotPeriod(now, s.location))
		return err
	})
	if err != nil {
		s.logger.Error("AdminSnapshot: repository error: %v", err)
		return nil, fmt.Errorf("%w: AdminSnapshot - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAdminSnapshot(snapshot, now), nil
}

// TenantSnapshot сводка по арендатору вызывающего
func (s *Service) TenantSnapshot(ctx context.Context, caller access.Caller) (*models.TenantSnapshotResponse, error) {
	s.logger.Info("TenantSnapshot: building snapshot for user=%d", caller.UserID)

	tenantID, err := access.RequireTenant(caller)
	if err != nil {
		s.logger.Warn("TenantSnapshot: user=%d has no tenant profile", caller.UserID)
		return nil, err
	}

	now := s.timeProvider.Now()
	period := domain.NewSnapshotPeriod(now, s.location)

	tenant, err := s.getTenant(ctx, tenantID, period, "TenantSnapshot")
	if err != nil {
		return nil, err
	}

	var snapshot *domain.TenantSnapshot
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		snapshot, err = s.statsRepo.TenantSnapshot(txCtx, tenantID, period)
		return err
	})
	if err != nil {
		s.logger.Error("TenantSnapshot: repository error for tenant id=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: TenantSnapshot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("TenantSnapshot: tenant id=%d has %d upcoming reservations", tenantID, len(snapshot.Upcoming))
	return models.FromDomainTenantSnapshot(tenant, snapshot, now), nil
}

// Config тип панели, доступные возможности и основные показатели
func (s *Service) Config(ctx context.Context, caller access.Caller) (*models.ConfigResponse, error) {
	dashboardType := models.TypeFor(caller)
	s.logger.Info("Config: user=%d dashboard=%s", caller.UserID, dashboardType)

	resp := &models.ConfigResponse{
		DashboardType: dashboardType,
		UserInfo: models.UserInfo{
			ID:       caller.UserID,
			Username: caller.Username,
			IsStaff:  caller.IsAdmin,
		},
		Features: models.Features(dashboardType),
		Stats:    map[string]int{},
	}

	period := domain.NewSnapshotPeriod(s.timeProvider.Now(), s.location)

	switch dashboardType {
	case models.TypeAdmin:
		snapshot, err := s.statsRepo.AdminSnapshot(ctx, period)
		if err != nil {
			s.logger.Error("Config: admin snapshot error: %v", err)
			return nil, fmt.Errorf("%w: Config - admin snapshot: %v", ErrInternal, err)
		}
		resp.Stats["total_users"] = snapshot.Users.Total
		resp.Stats["total_tenants"] = snapshot.Tenants.Total
		resp.Stats["total_bots"] = snapshot.Bots.Total
		resp.Stats["total_reservations"] = snapshot.Reservations.Total

	case models.TypeTenant:
		tenant, err := s.getTenant(ctx, *caller.TenantID, period, "Config")
		if err != nil {
			return nil, err
		}
		snapshot, err := s.statsRepo.TenantSnapshot(ctx, tenant.ID, period)
		if err != nil {
			s.logger.Error("Config: tenant snapshot error for tenant id=%d: %v", tenant.ID, err)
			return nil, fmt.Errorf("%w: Config - tenant snapshot: %v", ErrInternal, err)
		}
		resp.TenantInfo = &models.TenantInfo{
			ID:     tenant.ID,
			Name:   tenant.Name,
			Phone:  tenant.Phone,
			Status: string(tenant.Status),
		}
		resp.Stats["total_bots"] = snapshot.Bots.Total
		resp.Stats["active_bots"] = snapshot.Bots.Active
		resp.Stats["total_reservations"] = snapshot.Reservations.Total
		resp.Stats["pending_reservations"] = snapshot.Reservations.Pending

	default:
		resp.Message = models.LimitedAccessMessage
	}

	return resp, nil
}

func (s *Service) getTenant(ctx context.Context, id int64, period domain.SnapshotPeriod, op string) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id, period.CurrentMonth())
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("%s: tenant id=%d not found", op, id)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("%s: failed to get tenant id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - get tenant: %v", ErrInternal, op, err)
	}
	return tenant, nil
}
