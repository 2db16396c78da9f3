package create_bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	botRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/bot"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
	"github.com/m04kA/SMC-BotAdminService/pkg/ptr"
)

type tenantRepoMock struct {
	getForUpdateFn func(ctx context.Context, id int64) (*domain.Tenant, error)
}

func (m *tenantRepoMock) GetForUpdate(ctx context.Context, id int64) (*domain.Tenant, error) {
	return m.getForUpdateFn(ctx, id)
}

type botRepoMock struct {
	countFn  func(ctx context.Context, tenantID int64) (int, error)
	createFn func(ctx context.Context, bot *domain.Bot) (*domain.Bot, error)
}

func (m *botRepoMock) CountByTenant(ctx context.Context, tenantID int64) (int, error) {
	return m.countFn(ctx, tenantID)
}

func (m *botRepoMock) Create(ctx context.Context, bot *domain.Bot) (*domain.Bot, error) {
	return m.createFn(ctx, bot)
}

type txManagerMock struct {
	calls int
}

func (m *txManagerMock) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func activeTenant(max int) *domain.Tenant {
	return &domain.Tenant{ID: 5, Name: "Peluqueria Sol", Status: domain.TenantStatusActive, MaxBotsAllowed: max}
}

func newUseCase(tenant *domain.Tenant, count int, created *[]*domain.Bot) (*UseCase, *txManagerMock) {
	tenants := &tenantRepoMock{
		getForUpdateFn: func(ctx context.Context, id int64) (*domain.Tenant, error) {
			if tenant == nil || tenant.ID != id {
				return nil, tenantRepo.ErrTenantNotFound
			}
			return tenant, nil
		},
	}
	bots := &botRepoMock{
		countFn: func(ctx context.Context, tenantID int64) (int, error) { return count, nil },
		createFn: func(ctx context.Context, bot *domain.Bot) (*domain.Bot, error) {
			bot.ID = int64(100 + len(*created))
			*created = append(*created, bot)
			return bot, nil
		},
	}
	tx := &txManagerMock{}
	return NewUseCase(tenants, bots, tx, logger.NewNop()), tx
}

func ownerCaller() access.Caller {
	return access.Caller{UserID: 2, TenantID: ptr.Ptr(int64(5))}
}

func TestExecute_CreatesBelowQuota(t *testing.T) {
	var created []*domain.Bot
	uc, tx := newUseCase(activeTenant(3), 2, &created)

	resp, err := uc.Execute(context.Background(), &Request{
		Caller:          ownerCaller(),
		Name:            " Turnos ",
		WhatsAppPhoneID: "5491100000000",
	})

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, int64(5), resp.TenantID)
	assert.Equal(t, "Turnos", resp.Name)
	assert.True(t, resp.Enabled)
	assert.True(t, resp.Operational)
	assert.Equal(t, "Peluqueria Sol", resp.TenantName)
}

func TestExecute_QuotaReached(t *testing.T) {
	var created []*domain.Bot
	uc, _ := newUseCase(activeTenant(3), 3, &created)

	_, err := uc.Execute(context.Background(), &Request{
		Caller:          ownerCaller(),
		Name:            "Turnos",
		WhatsAppPhoneID: "1",
	})

	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, created)
}

func TestExecute_ZeroQuota(t *testing.T) {
	var created []*domain.Bot
	uc, _ := newUseCase(activeTenant(0), 0, &created)

	_, err := uc.Execute(context.Background(), &Request{Caller: ownerCaller(), Name: "a", WhatsAppPhoneID: "1"})

	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Empty(t, created)
}

func TestExecute_TenantNotActive(t *testing.T) {
	var created []*domain.Bot
	tenant := activeTenant(3)
	tenant.Status = domain.TenantStatusSuspended
	uc, _ := newUseCase(tenant, 0, &created)

	_, err := uc.Execute(context.Background(), &Request{Caller: ownerCaller(), Name: "a", WhatsAppPhoneID: "1"})

	assert.ErrorIs(t, err, ErrTenantNotActive)
	assert.Empty(t, created)
}

func TestExecute_AdminMustNameTenant(t *testing.T) {
	var created []*domain.Bot
	uc, _ := newUseCase(activeTenant(3), 0, &created)
	admin := access.Caller{UserID: 1, IsAdmin: true}

	_, err := uc.Execute(context.Background(), &Request{Caller: admin, Name: "a", WhatsAppPhoneID: "1"})
	assert.ErrorIs(t, err, ErrTenantNotSpecified)

	resp, err := uc.Execute(context.Background(), &Request{
		Caller: admin, TenantID: ptr.Ptr(int64(5)), Name: "a", WhatsAppPhoneID: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.TenantID)
}

func TestExecute_OwnerCannotCreateForOtherTenant(t *testing.T) {
	var created []*domain.Bot
	uc, tx := newUseCase(activeTenant(3), 0, &created)

	_, err := uc.Execute(context.Background(), &Request{
		Caller: ownerCaller(), TenantID: ptr.Ptr(int64(9)), Name: "a", WhatsAppPhoneID: "1",
	})

	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Equal(t, 0, tx.calls)
}

func TestExecute_CallerWithoutTenant(t *testing.T) {
	var created []*domain.Bot
	uc, _ := newUseCase(activeTenant(3), 0, &created)

	_, err := uc.Execute(context.Background(), &Request{
		Caller: access.Caller{UserID: 3}, Name: "a", WhatsAppPhoneID: "1",
	})

	assert.ErrorIs(t, err, access.ErrTenantRequired)
}

func TestExecute_Validation(t *testing.T) {
	var created []*domain.Bot
	uc, tx := newUseCase(activeTenant(3), 0, &created)

	_, err := uc.Execute(context.Background(), &Request{Caller: ownerCaller(), Name: "  ", WhatsAppPhoneID: "1"})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = uc.Execute(context.Background(), &Request{Caller: ownerCaller(), Name: "a"})
	assert.ErrorIs(t, err, ErrInvalidPhoneID)

	assert.Equal(t, 0, tx.calls)
}

func TestExecute_DuplicatePhoneID(t *testing.T) {
	tenants := &tenantRepoMock{
		getForUpdateFn: func(ctx context.Context, id int64) (*domain.Tenant, error) { return activeTenant(3), nil },
	}
	bots := &botRepoMock{
		countFn: func(ctx context.Context, tenantID int64) (int, error) { return 0, nil },
		createFn: func(ctx context.Context, bot *domain.Bot) (*domain.Bot, error) {
			return nil, botRepo.ErrPhoneIDTaken
		},
	}
	uc := NewUseCase(tenants, bots, &txManagerMock{}, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{Caller: ownerCaller(), Name: "a", WhatsAppPhoneID: "1"})

	assert.ErrorIs(t, err, ErrPhoneIDTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestExecute_RepositoryFailure(t *testing.T) {
	tenants := &tenantRepoMock{
		getForUpdateFn: func(ctx context.Context, id int64) (*domain.Tenant, error) {
			return nil, errors.New("connection reset")
		},
	}
	uc := NewUseCase(tenants, &botRepoMock{}, &txManagerMock{}, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{Caller: ownerCaller(), Name: "a", WhatsAppPhoneID: "1"})

	assert.ErrorIs(t, err, ErrInternal)
}
