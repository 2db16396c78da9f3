package dashboard

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
	"github.com/m04kA/SMC-BotAdminService/internal/service/dashboard/models"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
	"github.com/m04kA/SMC-BotAdminService/pkg/ptr"
)

type statsRepoMock struct {
	adminPeriod  domain.SnapshotPeriod
	tenantID     int64
	tenantPeriod domain.SnapshotPeriod
	err          error
}

func (m *statsRepoMock) AdminSnapshot(ctx context.Context, period domain.SnapshotPeriod) (*domain.AdminSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.adminPeriod = period

	s := &domain.AdminSnapshot{}
	s.Users.Total = 5
	s.Tenants.Total = 3
	s.Tenants.Suspended = 1
	s.Bots.Total = 4
	s.Bots.Blocked = 1
	s.Reservations = domain.ReservationBreakdown{Total: 10, Confirmed: 6, Pending: 3, Cancelled: 1}
	s.Recent.NewReservations = 7
	s.TopTenants = []domain.TenantRanking{{TenantID: 1, Name: "Sol", TotalReservations: 8, BotCount: 2}}
	return s, nil
}

func (m *statsRepoMock) TenantSnapshot(ctx context.Context, tenantID int64, period domain.SnapshotPeriod) (*domain.TenantSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tenantID = tenantID
	m.tenantPeriod = period

	s := &domain.TenantSnapshot{}
	s.Bots.Total = 2
	s.Bots.Active = 1
	s.Bots.Inactive = 1
	s.Reservations.ReservationBreakdown = domain.ReservationBreakdown{Total: 8, Confirmed: 5, Pending: 2, Cancelled: 1}
	s.Reservations.ThisMonth = 3
	s.Reservations.LastMonth = 4
	s.Upcoming = []domain.UpcomingReservation{
		{ID: 11, BotName: "Turnos", CustomerName: "Luis", StartAt: now.Add(time.Hour), Status: domain.ReservationStatusPending},
	}
	return s, nil
}

type tenantRepoMock struct{}

func (tenantRepoMock) GetByID(ctx context.Context, id int64, month domain.Period) (*domain.Tenant, error) {
	if id != 1 {
		return nil, tenantRepo.ErrTenantNotFound
	}
	return &domain.Tenant{ID: 1, Name: "Peluquería Sol", Phone: "+34600000000", Status: domain.TenantStatusActive}, nil
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

type txManagerMock struct{}

func (txManagerMock) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	now     = time.Date(2025, 3, 1, 0, 30, 0, 0, time.UTC)
	admin   = access.Caller{UserID: 1, Username: "root", IsAdmin: true}
	owner   = access.Caller{UserID: 2, Username: "sol", TenantID: ptr.Ptr(int64(1))}
	limited = access.Caller{UserID: 3, Username: "nobody"}
)

func newService(stats *statsRepoMock) *Service {
	madrid, _ := time.LoadLocation("Europe/Madrid")
	svc := NewService(stats, tenantRepoMock{}, txManagerMock{}, madrid, logger.NewNop())
	svc.timeProvider = fixedTime{now: now}
	return svc
}

func TestAdminSnapshot(t *testing.T) {
	stats := &statsRepoMock{}
	svc := newService(stats)

	resp, err := svc.AdminSnapshot(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Users.Total)
	assert.Equal(t, 1, resp.Tenants.Suspended)
	assert.Equal(t, 1, resp.Bots.Blocked)
	assert.Equal(t, 3, resp.Reservations.Pending)
	assert.Equal(t, 7, resp.RecentActivity.NewReservations)
	require.Len(t, resp.TopTenants, 1)
	assert.Equal(t, now.Add(-domain.RecentPeriod), stats.adminPeriod.RecentSince)

	_, err = svc.AdminSnapshot(context.Background(), owner)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestTenantSnapshot(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		stats := &statsRepoMock{}
		svc := newService(stats)

		resp, err := svc.TenantSnapshot(context.Background(), owner)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.tenantID)
		assert.Equal(t, "Peluquería Sol", resp.TenantName)
		assert.Equal(t, 8, resp.Reservations.Total)
		assert.Equal(t, 3, resp.Reservations.ThisMonth)
		assert.Equal(t, 4, resp.Reservations.LastMonth)
		require.Len(t, resp.Upcoming, 1)
		assert.Equal(t, "pending", resp.Upcoming[0].Status)

		// 00:30 UTC 1 марта уже март в Мадриде (UTC+1)
		madrid, _ := time.LoadLocation("Europe/Madrid")
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, madrid), stats.tenantPeriod.MonthStart)
		assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, madrid), stats.tenantPeriod.PrevMonthStart)
	})

	t.Run("no tenant profile", func(t *testing.T) {
		svc := newService(&statsRepoMock{})
		_, err := svc.TenantSnapshot(context.Background(), limited)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)

		_, err = svc.TenantSnapshot(context.Background(), admin)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("stale tenant reference", func(t *testing.T) {
		svc := newService(&statsRepoMock{})
		_, err := svc.TenantSnapshot(context.Background(), access.Caller{UserID: 9, TenantID: ptr.Ptr(int64(99))})
		assert.ErrorIs(t, err, ErrTenantNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		svc := newService(&statsRepoMock{err: errors.New("timeout")})
		_, err := svc.TenantSnapshot(context.Background(), owner)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestConfig(t *testing.T) {
	svc := newService(&statsRepoMock{})

	adminCfg, err := svc.Config(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, models.TypeAdmin, adminCfg.DashboardType)
	assert.Contains(t, adminCfg.Features, "tenant_management")
	assert.Equal(t, 5, adminCfg.Stats["total_users"])
	assert.Equal(t, 10, adminCfg.Stats["total_reservations"])
	assert.Nil(t, adminCfg.TenantInfo)
	assert.True(t, adminCfg.UserInfo.IsStaff)

	ownerCfg, err := svc.Config(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, models.TypeTenant, ownerCfg.DashboardType)
	assert.Contains(t, ownerCfg.Features, "calendar")
	require.NotNil(t, ownerCfg.TenantInfo)
	assert.Equal(t, "Peluquería Sol", ownerCfg.TenantInfo.Name)
	assert.Equal(t, 2, ownerCfg.Stats["pending_reservations"])

	limitedCfg, err := svc.Config(context.Background(), limited)
	require.NoError(t, err)
	assert.Equal(t, models.TypeLimited, limitedCfg.DashboardType)
	assert.Equal(t, []string{"limited_access"}, limitedCfg.Features)
	assert.Empty(t, limitedCfg.Stats)
	assert.NotEmpty(t, limitedCfg.Message)
}

func TestTypeFor_AdminWithTenantProfile(t *testing.T) {
	caller := access.Caller{UserID: 1, IsAdmin: true, TenantID: ptr.Ptr(int64(1))}
	assert.Equal(t, models.TypeAdmin, models.TypeFor(caller))
}
