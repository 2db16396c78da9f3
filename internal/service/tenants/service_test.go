package tenants

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
	userRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/user"
	"github.com/m04kA/SMC-BotAdminService/internal/service/tenants/models"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
	"github.com/m04kA/SMC-BotAdminService/pkg/password"
	"github.com/m04kA/SMC-BotAdminService/pkg/ptr"
)

type tenantRepoMock struct {
	items      map[int64]*domain.Tenant
	created    *domain.Tenant
	lastFilter domain.TenantFilter
	listTotal  int
	listErr    error
}

func (m *tenantRepoMock) Create(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	copied := *t
	copied.ID = 100
	copied.RegisteredAt = now
	m.created = &copied
	return &copied, nil
}

func (m *tenantRepoMock) GetByID(ctx context.Context, id int64, month domain.Period) (*domain.Tenant, error) {
	t, ok := m.items[id]
	if !ok {
		return nil, tenantRepo.ErrTenantNotFound
	}
	return t, nil
}

func (m *tenantRepoMock) List(ctx context.Context, filter domain.TenantFilter) ([]*domain.Tenant, int, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	result := make([]*domain.Tenant, 0, len(m.items))
	for _, t := range m.items {
		result = append(result, t)
	}
	return result, m.listTotal, nil
}

func (m *tenantRepoMock) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return tenantRepo.ErrTenantNotFound
	}
	delete(m.items, id)
	return nil
}

type userRepoMock struct {
	created *domain.User
	err     error
}

func (m *userRepoMock) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	copied := *u
	copied.ID = 50
	m.created = &copied
	return &copied, nil
}

type botRepoMock struct {
	bots []*domain.Bot
}

func (m *botRepoMock) List(ctx context.Context, scope access.Scope, filter domain.BotFilter) ([]*domain.Bot, error) {
	result := make([]*domain.Bot, 0)
	for _, b := range m.bots {
		if filter.TenantID == nil || b.TenantID == *filter.TenantID {
			result = append(result, b)
		}
	}
	return result, nil
}

type statsRepoMock struct {
	period domain.SnapshotPeriod
}

func (m *statsRepoMock) TenantsOverview(ctx context.Context, period domain.SnapshotPeriod) (*domain.TenantsOverview, error) {
	m.period = period
	return &domain.TenantsOverview{
		Total:       3,
		Active:      2,
		Inactive:    1,
		AverageBots: 1.5,
		TopByBookings: []domain.TenantRanking{
			{TenantID: 1, Name: "Peluquería Sol", TotalReservations: 12, BotCount: 2},
		},
	}, nil
}

type txManagerMock struct {
	calls int
}

func (m *txManagerMock) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

var (
	now   = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	admin = access.Caller{UserID: 1, IsAdmin: true}
	owner = access.Caller{UserID: 2, TenantID: ptr.Ptr(int64(1))}
)

type fixture struct {
	svc     *Service
	tenants *tenantRepoMock
	users   *userRepoMock
	stats   *statsRepoMock
	tx      *txManagerMock
}

func newFixture() *fixture {
	lastAccess := now.Add(-2 * time.Hour)
	f := &fixture{
		tenants: &tenantRepoMock{
			listTotal: 23,
			items: map[int64]*domain.Tenant{
				1: {
					ID: 1, UserID: 2, Name: "Peluquería Sol", Status: domain.TenantStatusActive,
					MaxBotsAllowed: 3, BotCount: 2, RegisteredAt: now.Add(-10 * 24 * time.Hour),
					LastAccessAt: &lastAccess, Username: "sol", FirstName: "Ana",
				},
			},
		},
		users: &userRepoMock{},
		stats: &statsRepoMock{},
		tx:    &txManagerMock{},
	}
	bots := &botRepoMock{bots: []*domain.Bot{
		{ID: 7, TenantID: 1, Name: "Turnos", CreatedAt: now.Add(-5 * 24 * time.Hour)},
		{ID: 8, TenantID: 1, Name: "Reservas", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: 9, TenantID: 2, Name: "Otro", CreatedAt: now},
	}}

	f.svc = NewService(f.tenants, f.users, bots, f.stats, f.tx, time.UTC, logger.NewNop())
	f.svc.timeProvider = fixedTime{now: now}
	return f
}

func TestService_AdminOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.List(ctx, owner, &models.ListTenantsRequest{})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = f.svc.GetByID(ctx, owner, 1)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = f.svc.Provision(ctx, owner, &models.ProvisionTenantRequest{})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	assert.ErrorIs(t, f.svc.Delete(ctx, owner, 1), domain.ErrAccessDenied)

	_, err = f.svc.Activity(ctx, owner, 1)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = f.svc.Stats(ctx, owner)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestService_List(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.List(context.Background(), admin, &models.ListTenantsRequest{})
		require.NoError(t, err)

		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, domain.DefaultPageSize, resp.PageSize)
		assert.Equal(t, 23, resp.Count)
		assert.Equal(t, 3, resp.TotalPages)
		assert.Equal(t, tenantRepo.DefaultOrdering, f.tenants.lastFilter.Ordering)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), f.tenants.lastFilter.Month.From)

		require.Len(t, resp.Results, 1)
		assert.True(t, resp.Results[0].CanCreateBot)
		assert.Equal(t, 10, resp.Results[0].DaysSinceRegistration)
		assert.Equal(t, "Ana", resp.Results[0].FullName)
	})

	t.Run("page size capped and offset", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.List(context.Background(), admin, &models.ListTenantsRequest{Page: 2, PageSize: 500})
		require.NoError(t, err)
		assert.Equal(t, domain.MaxPageSize, resp.PageSize)
		assert.Equal(t, uint64(domain.MaxPageSize), f.tenants.lastFilter.Offset)
		assert.Equal(t, 1, resp.TotalPages)
	})

	t.Run("status filter", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.List(context.Background(), admin, &models.ListTenantsRequest{Status: ptr.Ptr("suspended"), Search: "sol"})
		require.NoError(t, err)
		require.NotNil(t, f.tenants.lastFilter.Status)
		assert.Equal(t, domain.TenantStatusSuspended, *f.tenants.lastFilter.Status)
		assert.Equal(t, "sol", f.tenants.lastFilter.Search)
	})

	t.Run("invalid status", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.List(context.Background(), admin, &models.ListTenantsRequest{Status: ptr.Ptr("deleted")})
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("invalid ordering", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.List(context.Background(), admin, &models.ListTenantsRequest{Ordering: "password"})
		assert.ErrorIs(t, err, ErrInvalidOrdering)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture()
		f.tenants.listErr = errors.New("connection refused")
		_, err := f.svc.List(context.Background(), admin, &models.ListTenantsRequest{})
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_GetByID(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetByID(context.Background(), admin, 1)
	require.NoError(t, err)
	assert.Equal(t, "Peluquería Sol", resp.Name)
	assert.Len(t, resp.Bots, 2)

	_, err = f.svc.GetByID(context.Background(), admin, 404)
	assert.ErrorIs(t, err, ErrTenantNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Provision(t *testing.T) {
	valid := func() *models.ProvisionTenantRequest {
		return &models.ProvisionTenantRequest{
			Username: "luna", Email: "luna@example.com", Password: "s3cretpass",
			FirstName: "Luna", Name: "Estética Luna", Phone: "+34600000000",
		}
	}

	t.Run("defaults", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.Provision(context.Background(), admin, valid())
		require.NoError(t, err)

		assert.Equal(t, 1, f.tx.calls)
		assert.Equal(t, int64(50), resp.UserID)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, domain.DefaultMaxBotsAllowed, resp.MaxBotsAllowed)
		assert.Equal(t, "luna", resp.Username)
		assert.True(t, resp.CanCreateBot)

		require.NotNil(t, f.users.created)
		assert.True(t, f.users.created.IsActive)
		assert.False(t, f.users.created.IsStaff)
		assert.NotEqual(t, "s3cretpass", f.users.created.PasswordHash)
		assert.NoError(t, password.Compare(f.users.created.PasswordHash, "s3cretpass"))
	})

	t.Run("explicit status and quota", func(t *testing.T) {
		f := newFixture()
		req := valid()
		req.Status = ptr.Ptr("suspended")
		req.MaxBotsAllowed = ptr.Ptr(0)
		resp, err := f.svc.Provision(context.Background(), admin, req)
		require.NoError(t, err)
		assert.Equal(t, "suspended", resp.Status)
		assert.Equal(t, 0, resp.MaxBotsAllowed)
		assert.False(t, resp.CanCreateBot)
	})

	t.Run("username taken", func(t *testing.T) {
		f := newFixture()
		f.users.err = userRepo.ErrUsernameTaken
		_, err := f.svc.Provision(context.Background(), admin, valid())
		assert.ErrorIs(t, err, ErrUsernameTaken)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Nil(t, f.tenants.created)
	})

	t.Run("validation", func(t *testing.T) {
		cases := map[string]func(r *models.ProvisionTenantRequest){
			"no username":    func(r *models.ProvisionTenantRequest) { r.Username = " " },
			"no name":        func(r *models.ProvisionTenantRequest) { r.Name = "" },
			"bad email":      func(r *models.ProvisionTenantRequest) { r.Email = "not-an-email" },
			"short password": func(r *models.ProvisionTenantRequest) { r.Password = "123" },
			"negative quota": func(r *models.ProvisionTenantRequest) { r.MaxBotsAllowed = ptr.Ptr(-1) },
			"bad status":     func(r *models.ProvisionTenantRequest) { r.Status = ptr.Ptr("deleted") },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				f := newFixture()
				req := valid()
				mutate(req)
				_, err := f.svc.Provision(context.Background(), admin, req)
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Nil(t, f.users.created)
			})
		}
	})
}

func TestService_Delete(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.svc.Delete(context.Background(), admin, 1))
	assert.NotContains(t, f.tenants.items, int64(1))

	assert.ErrorIs(t, f.svc.Delete(context.Background(), admin, 1), ErrTenantNotFound)
}

func TestService_Activity(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Activity(context.Background(), admin, 1)
	require.NoError(t, err)

	require.Len(t, resp.Events, 4)
	assert.Equal(t, ActivityBotCreated, resp.Events[0].Type)
	assert.Contains(t, resp.Events[0].Description, "Reservas")
	assert.Equal(t, ActivityLastAccess, resp.Events[1].Type)
	assert.Equal(t, ActivityBotCreated, resp.Events[2].Type)
	assert.Equal(t, ActivityRegistered, resp.Events[3].Type)

	for i := 1; i < len(resp.Events); i++ {
		assert.False(t, resp.Events[i].Timestamp.After(resp.Events[i-1].Timestamp))
	}
}

func TestBuildActivity_Limit(t *testing.T) {
	tenant := &domain.Tenant{ID: 1, Name: "Sol", RegisteredAt: now.Add(-1000 * time.Hour)}
	bots := make([]*domain.Bot, 0, 30)
	for i := 0; i < 30; i++ {
		bots = append(bots, &domain.Bot{ID: int64(i), Name: "bot", CreatedAt: now.Add(-time.Duration(i) * time.Hour)})
	}

	events := buildActivity(tenant, bots)
	require.Len(t, events, domain.ActivityLogSize)
	assert.Equal(t, now, events[0].Timestamp)
}

func TestService_Stats(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Stats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 1.5, resp.AverageBots)
	require.Len(t, resp.TopByBookings, 1)
	assert.Equal(t, 12, resp.TopByBookings[0].TotalReservations)
	assert.Equal(t, now, f.stats.period.Now)
}
