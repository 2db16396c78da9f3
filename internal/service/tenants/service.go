package tenants

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
	userRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/user"
	botModels "github.com/m04kA/SMC-BotAdminService/internal/service/bots/models"
	"github.com/m04kA/SMC-BotAdminService/internal/service/tenants/models"
	"github.com/m04kA/SMC-BotAdminService/pkg/password"
)

// Типы событий журнала активности
const (
	ActivityRegistered = "registration"
	ActivityLastAccess = "last_access"
	ActivityBotCreated = "bot_created"
)

// Service сервис реестра арендаторов. Все операции только для администратора.
type Service struct {
	tenantRepo   TenantRepository
	userRepo     UserRepository
	botRepo      BotRepository
	statsRepo    StatsRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса арендаторов.
// location задаёт границы календарного месяца для счётчиков.
func NewService(
	tenantRepo TenantRepository,
	userRepo UserRepository,
	botRepo BotRepository,
	statsRepo StatsRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		tenantRepo:   tenantRepo,
		userRepo:     userRepo,
		botRepo:      botRepo,
		statsRepo:    statsRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// List возвращает страницу арендаторов с поиском, фильтром по статусу и сортировкой
func (s *Service) List(ctx context.Context, caller access.Caller, req *models.ListTenantsRequest) (*models.TenantListResponse, error) {
	s.logger.Info("List: fetching tenants for user=%d, page=%d, page_size=%d, status=%v, search=%q, ordering=%q",
		caller.UserID, req.Page, req.PageSize, req.Status, req.Search, req.Ordering)

	if err := access.RequireAdmin(caller); err != nil {
		s.logger.Warn("List: user=%d is not an administrator", caller.UserID)
		return nil, err
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)

	ordering := req.Ordering
	if ordering == "" {
		ordering = tenantRepo.DefaultOrdering
	}
	if !tenantRepo.IsValidOrdering(ordering) {
		s.logger.Warn("List: invalid ordering=%q", req.Ordering)
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrdering, req.Ordering)
	}

	now := s.timeProvider.Now()
	filter := domain.TenantFilter{
		Search:   req.Search,
		Ordering: ordering,
		Limit:    uint64(pageSize),
		Offset:   uint64((page - 1) * pageSize),
		Month:    domain.NewSnapshotPeriod(now, s.location).CurrentMonth(),
	}

	if req.Status != nil && *req.Status != "" {
		status := domain.TenantStatus(*req.Status)
		if !status.IsValid() {
			s.logger.Warn("List: invalid status=%q", *req.Status)
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
		}
		filter.Status = &status
	}

	list, total, err := s.tenantRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.TenantListResponse{
		Count:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
		Results:    make([]models.TenantResponse, 0, len(list)),
	}
	for _, t := range list {
		resp.Results = append(resp.Results, *models.FromDomainTenant(t, now))
	}

	s.logger.Info("List: successfully fetched %d of %d tenants", len(list), total)
	return resp, nil
}

// GetByID получает арендатора вместе с его ботами
func (s *Service) GetByID(ctx context.Context, caller access.Caller, id int64) (*models.TenantDetailResponse, error) {
	s.logger.Info("GetByID: fetching tenant id=%d for user=%d", id, caller.UserID)

	if err := access.RequireAdmin(caller); err != nil {
		s.logger.Warn("GetByID: user=%d is not an administrator", caller.UserID)
		return nil, err
	}

	now := s.timeProvider.Now()

	tenant, err := s.get(ctx, id, now, "GetByID")
	if err != nil {
		return nil, err
	}

	bots, err := s.botRepo.List(ctx, access.Unrestricted(), domain.BotFilter{TenantID: &id})
	if err != nil {
		s.logger.Error("GetByID: failed to list bots of tenant id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - list bots: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched tenant id=%d with %d bots", id, len(bots))
	return &models.TenantDetailResponse{
		TenantResponse: *models.FromDomainTenant(tenant, now),
		Bots:           botModels.FromDomainBotList(bots).Bots,
	}, nil
}

// Provision создает учётную запись и профиль арендатора в одной транзакции
func (s *Service) Provision(ctx context.Context, caller access.Caller, req *models.ProvisionTenantRequest) (*models.TenantResponse, error) {
	s.logger.Info("Provision: creating tenant %q for username=%q by user=%d", req.Name, req.Username, caller.UserID)

	if err := access.RequireAdmin(caller); err != nil {
		s.logger.Warn("Provision: user=%d is not an administrator", caller.UserID)
		return nil, err
	}

	tenant, err := validateProvision(req)
	if err != nil {
		s.logger.Warn("Provision: validation failed: %v", err)
		return nil, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooShort) {
			return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, password.MinLength)
		}
		s.logger.Error("Provision: failed to hash password: %v", err)
		return nil, fmt.Errorf("%w: Provision - hash password: %v", ErrInternal, err)
	}

	var created *domain.Tenant

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.Create(txCtx, &domain.User{
			Username:     strings.TrimSpace(req.Username),
			Email:        strings.TrimSpace(req.Email),
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			IsActive:     true,
		})
		if err != nil {
			if errors.Is(err, userRepo.ErrUsernameTaken) {
				s.logger.Warn("Provision: username=%q already taken", req.Username)
				return ErrUsernameTaken
			}
			return fmt.Errorf("%w: Provision - create user: %v", ErrInternal, err)
		}

		tenant.UserID = user.ID
		t, err := s.tenantRepo.Create(txCtx, tenant)
		if err != nil {
			if errors.Is(err, tenantRepo.ErrConstraint) {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return fmt.Errorf("%w: Provision - create tenant: %v", ErrInternal, err)
		}

		t.Username = user.Username
		t.Email = user.Email
		t.FirstName = user.FirstName
		t.LastName = user.LastName
		created = t
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Provision: %v", err)
		}
		return nil, err
	}

	s.logger.Info("Provision: successfully created tenant id=%d for user id=%d", created.ID, created.UserID)
	return models.FromDomainTenant(created, s.timeProvider.Now()), nil
}

// Delete удаляет арендатора; боты, услуги, расписание и бронирования удаляются каскадно
func (s *Service) Delete(ctx context.Context, caller access.Caller, id int64) error {
	s.logger.Info("Delete: deleting tenant id=%d by user=%d", id, caller.UserID)

	if err := access.RequireAdmin(caller); err != nil {
		s.logger.Warn("Delete: user=%d is not an administrator", caller.UserID)
		return err
	}

	if err := s.tenantRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("Delete: tenant id=%d not found", id)
			return ErrTenantNotFound
		}
		s.logger.Error("Delete: repository error for tenant id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted tenant id=%d", id)
	return nil
}

// Activity журнал активности: регистрация, последний вход и создание ботов, новые первыми
func (s *Service) Activity(ctx context.Context, caller access.Caller, id int64) (*models.ActivityResponse, error) {
	s.logger.Info("Activity: fetching activity of tenant id=%d for user=%d", id, caller.UserID)

	if err := access.RequireAdmin(caller); err != nil {
		s.logger.Warn("Activity: user=%d is not an administrator", caller.UserID)
		return nil, err
	}

	tenant, err := s.get(ctx, id, s.timeProvider.Now(), "Activity")
	if err != nil {
		return nil, err
	}

	bots, err := s.botRepo.List(ctx, access.Unrestricted(), domain.BotFilter{TenantID: &id})
	if err != nil {
		s.logger.Error("Activity: failed to list bots of tenant id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Activity - list bots: %v", ErrInternal, err)
	}

	events := buildActivity(tenant, bots)

	s.logger.Info("Activity: tenant id=%d has %d events", id, len(events))
	return &models.ActivityResponse{
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
		Events:     events,
	}, nil
}

// Stats агрегаты по арендаторам
func (s *Service) Stats(ctx context.Context, caller access.Caller) (*models.StatsResponse, error) {
	s.logger.Info("Stats: fetching tenant stats for user=%d", caller.UserID)

	if err := access.RequireAdmin(caller); err != nil {
		s.logger.Warn("Stats: user=%d is not an administrator", caller.UserID)
		return nil, err
	}

	overview, err := s.statsRepo.TenantsOverview(ctx, domain.NewSnapshotPeriod(s.timeProvider.Now(), s.location))
	if err != nil {
		s.logger.Error("Stats: repository error: %v", err)
		return nil, fmt.Errorf("%w: Stats - repository error: %v", ErrInternal, err)
	}

	return &models.StatsResponse{
		Total:         overview.Total,
		Active:        overview.Active,
		Suspended:     overview.Suspended,
		Inactive:      overview.Inactive,
		NewLast30Days: overview.NewLast30Days,
		AverageBots:   overview.AverageBots,
		TopByBookings: models.FromDomainRankings(overview.TopByBookings),
	}, nil
}

func (s *Service) get(ctx context.Context, id int64, now time.Time, op string) (*domain.Tenant, error) {
	month := domain.NewSnapshotPeriod(now, s.location).CurrentMonth()

	tenant, err := s.tenantRepo.GetByID(ctx, id, month)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("%s: tenant id=%d not found", op, id)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("%s: repository error for tenant id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return tenant, nil
}

func buildActivity(tenant *domain.Tenant, bots []*domain.Bot) []models.ActivityEvent {
	events := make([]models.ActivityEvent, 0, len(bots)+2)

	events = append(events, models.ActivityEvent{
		Type:        ActivityRegistered,
		Description: fmt.Sprintf("Tenant %s registered", tenant.Name),
		Timestamp:   tenant.RegisteredAt,
	})
	if tenant.LastAccessAt != nil {
		events = append(events, models.ActivityEvent{
			Type:        ActivityLastAccess,
			Description: "Last access to the dashboard",
			Timestamp:   *tenant.LastAccessAt,
		})
	}
	for _, b := range bots {
		events = append(events, models.ActivityEvent{
			Type:        ActivityBotCreated,
			Description: fmt.Sprintf("Bot %s created", b.Name),
			Timestamp:   b.CreatedAt,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})

	if len(events) > domain.ActivityLogSize {
		events = events[:domain.ActivityLogSize]
	}
	return events
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize <= 0:
		pageSize = domain.DefaultPageSize
	case pageSize > domain.MaxPageSize:
		pageSize = domain.MaxPageSize
	}
	return page, pageSize
}

func validateProvision(req *models.ProvisionTenantRequest) (*domain.Tenant, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || utf8.RuneCountInString(username) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: tenant name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Phone)) > domain.MaxPhoneLength {
		return nil, fmt.Errorf("%w: phone is too long", ErrInvalidInput)
	}

	tenant := &domain.Tenant{
		Name:           name,
		Phone:          strings.TrimSpace(req.Phone),
		Status:         domain.TenantStatusActive,
		MaxBotsAllowed: domain.DefaultMaxBotsAllowed,
		AdminNotes:     req.AdminNotes,
	}

	if req.Status != nil {
		tenant.Status = domain.TenantStatus(*req.Status)
		if !tenant.Status.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
		}
	}
	if req.MaxBotsAllowed != nil {
		if *req.MaxBotsAllowed < 0 {
			return nil, fmt.Errorf("%w: max_bots_allowed must not be negative", ErrInvalidInput)
		}
		tenant.MaxBotsAllowed = *req.MaxBotsAllowed
	}

	return tenant, nil
}
