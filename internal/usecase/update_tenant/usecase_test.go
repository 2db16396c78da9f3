package update_tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
	"github.com/m04kA/SMC-BotAdminService/pkg/ptr"
)

type tenantRepoMock struct {
	tenant  *domain.Tenant
	updated *domain.Tenant
}

func (m *tenantRepoMock) GetForUpdate(ctx context.Context, id int64) (*domain.Tenant, error) {
	if m.tenant == nil || m.tenant.ID != id {
		return nil, tenantRepo.ErrTenantNotFound
	}
	copied := *m.tenant
	return &copied, nil
}

func (m *tenantRepoMock) Update(ctx context.Context, t *domain.Tenant) error {
	m.updated = t
	return nil
}

// botRepoMock хранит флаги enabled ботов арендатора
type botRepoMock struct {
	enabled []bool
}

func (m *botRepoMock) CountByTenant(ctx context.Context, tenantID int64) (int, error) {
	return len(m.enabled), nil
}

func (m *botRepoMock) DisableAllByTenant(ctx context.Context, tenantID int64) (int64, error) {
	var n int64
	for i, on := range m.enabled {
		if on {
			m.enabled[i] = false
			n++
		}
	}
	return n, nil
}

type txManagerMock struct{}

func (txManagerMock) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var admin = access.Caller{UserID: 1, IsAdmin: true}

func setup(bots ...bool) (*UseCase, *tenantRepoMock, *botRepoMock) {
	tenants := &tenantRepoMock{tenant: &domain.Tenant{
		ID:             4,
		Name:           "Peluqueria Sol",
		Status:         domain.TenantStatusActive,
		MaxBotsAllowed: 3,
	}}
	botsRepo := &botRepoMock{enabled: bots}
	return NewUseCase(tenants, botsRepo, txManagerMock{}, logger.NewNop()), tenants, botsRepo
}

func TestExecute_SuspendDisablesAllBots(t *testing.T) {
	uc, tenants, bots := setup(true, true, false)

	resp, err := uc.Execute(context.Background(), &Request{
		Caller:   admin,
		TenantID: 4,
		Status:   ptr.Ptr("suspended"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.DisabledBots)
	assert.Equal(t, domain.TenantStatusSuspended, tenants.updated.Status)
	assert.False(t, resp.CanCreateBot)
	for _, on := range bots.enabled {
		assert.False(t, on)
	}
}

func TestExecute_ActivateKeepsBots(t *testing.T) {
	uc, _, bots := setup(true, false)

	resp, err := uc.Execute(context.Background(), &Request{
		Caller: admin, TenantID: 4, Status: ptr.Ptr("active"),
	})

	require.NoError(t, err)
	assert.Zero(t, resp.DisabledBots)
	assert.Equal(t, []bool{true, false}, bots.enabled)
}

func TestExecute_BotLimit(t *testing.T) {
	t.Run("below current count is rejected", func(t *testing.T) {
		uc, tenants, _ := setup(true, true, true)

		_, err := uc.Execute(context.Background(), &Request{
			Caller: admin, TenantID: 4, MaxBotsAllowed: ptr.Ptr(2),
		})

		assert.ErrorIs(t, err, ErrBotLimitBelowCount)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Nil(t, tenants.updated)
	})

	t.Run("equal to current count", func(t *testing.T) {
		uc, _, _ := setup(true, true, true)

		resp, err := uc.Execute(context.Background(), &Request{
			Caller: admin, TenantID: 4, MaxBotsAllowed: ptr.Ptr(3),
		})

		require.NoError(t, err)
		assert.False(t, resp.CanCreateBot)
	})

	t.Run("negative", func(t *testing.T) {
		uc, _, _ := setup()

		_, err := uc.Execute(context.Background(), &Request{
			Caller: admin, TenantID: 4, MaxBotsAllowed: ptr.Ptr(-1),
		})

		assert.ErrorIs(t, err, ErrNegativeBotLimit)
	})

	t.Run("raise", func(t *testing.T) {
		uc, tenants, _ := setup(true)

		resp, err := uc.Execute(context.Background(), &Request{
			Caller: admin, TenantID: 4, MaxBotsAllowed: ptr.Ptr(10),
		})

		require.NoError(t, err)
		assert.Equal(t, 10, tenants.updated.MaxBotsAllowed)
		assert.True(t, resp.CanCreateBot)
	})
}

func TestExecute_InvalidStatus(t *testing.T) {
	uc, _, _ := setup()

	_, err := uc.Execute(context.Background(), &Request{
		Caller: admin, TenantID: 4, Status: ptr.Ptr("deleted"),
	})

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestExecute_Fields(t *testing.T) {
	uc, tenants, _ := setup()

	_, err := uc.Execute(context.Background(), &Request{
		Caller:     admin,
		TenantID:   4,
		Name:       ptr.Ptr("  Sol y Sombra "),
		AdminNotes: ptr.Ptr("pago al día"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Sol y Sombra", tenants.updated.Name)
	assert.Equal(t, "pago al día", tenants.updated.AdminNotes)
	assert.Equal(t, domain.TenantStatusActive, tenants.updated.Status)
}

func TestExecute_Rejections(t *testing.T) {
	uc, _, _ := setup()

	_, err := uc.Execute(context.Background(), &Request{
		Caller: access.Caller{UserID: 2, TenantID: ptr.Ptr(int64(4))}, TenantID: 4, Status: ptr.Ptr("active"),
	})
	assert.ErrorIs(t, err, access.ErrAdminRequired)

	_, err = uc.Execute(context.Background(), &Request{Caller: admin, TenantID: 4})
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	_, err = uc.Execute(context.Background(), &Request{Caller: admin, TenantID: 99, Status: ptr.Ptr("active")})
	assert.ErrorIs(t, err, ErrTenantNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
