package bots

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	botRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/bot"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-BotAdminService/internal/service/bots/models"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
	"github.com/m04kA/SMC-BotAdminService/pkg/ptr"
)

type fakeBotRepo struct {
	bots      map[int64]*domain.Bot
	updateErr error
}

func (f *fakeBotRepo) GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.Bot, error) {
	b, ok := f.bots[id]
	if !ok || !scope.Allows(b.TenantID) {
		return nil, botRepo.ErrBotNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBotRepo) List(ctx context.Context, scope access.Scope, filter domain.BotFilter) ([]*domain.Bot, error) {
	result := make([]*domain.Bot, 0)
	for _, b := range f.bots {
		if !scope.Allows(b.TenantID) {
			continue
		}
		if filter.TenantID != nil && *filter.TenantID != b.TenantID {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBotRepo) Update(ctx context.Context, b *domain.Bot) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.bots[b.ID] = b
	return nil
}

func (f *fakeBotRepo) ToggleBlocked(ctx context.Context, tenantID, botID int64) (bool, error) {
	b, ok := f.bots[botID]
	if !ok || b.TenantID != tenantID {
		return false, botRepo.ErrBotNotFound
	}
	b.Blocked = !b.Blocked
	return b.Blocked, nil
}

func (f *fakeBotRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.bots[id]; !ok {
		return botRepo.ErrBotNotFound
	}
	delete(f.bots, id)
	return nil
}

type txKey struct{}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(context.WithValue(ctx, txKey{}, true))
}

// fakeTenantRepo хранит текущий статус арендаторов, как его видит заблокированная строка
type fakeTenantRepo struct {
	statuses map[int64]domain.TenantStatus
	lockedTx bool
}

func (f *fakeTenantRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Tenant, error) {
	status, ok := f.statuses[id]
	if !ok {
		return nil, tenantRepo.ErrTenantNotFound
	}
	f.lockedTx, _ = ctx.Value(txKey{}).(bool)
	return &domain.Tenant{ID: id, Status: status}, nil
}

var (
	admin  = access.Caller{UserID: 1, IsAdmin: true}
	ownerA = access.Caller{UserID: 2, TenantID: ptr.Ptr(int64(1))}
	ownerB = access.Caller{UserID: 3, TenantID: ptr.Ptr(int64(2))}
	guest  = access.Caller{UserID: 4}
)

func newFixture() (*Service, *fakeBotRepo) {
	svc, repo, _ := newFixtureWithTenants()
	return svc, repo
}

func newFixtureWithTenants() (*Service, *fakeBotRepo, *fakeTenantRepo) {
	repo := &fakeBotRepo{bots: map[int64]*domain.Bot{
		10: {ID: 10, TenantID: 1, Name: "A1", WhatsAppPhoneID: "p10", Enabled: true, TenantStatus: domain.TenantStatusActive},
		11: {ID: 11, TenantID: 1, Name: "A2", WhatsAppPhoneID: "p11", TenantStatus: domain.TenantStatusActive},
		20: {ID: 20, TenantID: 2, Name: "B1", WhatsAppPhoneID: "p20", TenantStatus: domain.TenantStatusSuspended},
	}}
	tenants := &fakeTenantRepo{statuses: map[int64]domain.TenantStatus{
		1: domain.TenantStatusActive,
		2: domain.TenantStatusSuspended,
	}}
	return NewService(repo, tenants, &fakeTxManager{}, logger.NewNop()), repo, tenants
}

func TestList_Scoping(t *testing.T) {
	svc, _ := newFixture()

	all, err := svc.List(context.Background(), admin, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)

	own, err := svc.List(context.Background(), ownerA, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, own.Total)

	// чужой арендатор в фильтре даёт пустой список, а не ошибку
	foreign, err := svc.List(context.Background(), ownerA, ptr.Ptr(int64(2)))
	require.NoError(t, err)
	assert.Zero(t, foreign.Total)
	assert.NotNil(t, foreign.Bots)

	none, err := svc.List(context.Background(), guest, nil)
	require.NoError(t, err)
	assert.Zero(t, none.Total)
}

func TestGetByID_ForeignLooksMissing(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.GetByID(context.Background(), ownerB, 10)
	assert.ErrorIs(t, err, ErrBotNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp, err := svc.GetByID(context.Background(), ownerA, 10)
	require.NoError(t, err)
	assert.True(t, resp.Operational)
}

func TestUpdate_Rules(t *testing.T) {
	t.Run("owner cannot change blocked", func(t *testing.T) {
		svc, _ := newFixture()
		_, err := svc.Update(context.Background(), ownerA, 10, &models.UpdateBotRequest{
			Name: "A1", WhatsAppPhoneID: "p10", Enabled: true, Blocked: ptr.Ptr(true),
		})
		assert.ErrorIs(t, err, ErrBlockedAdminOnly)
	})

	t.Run("owner may send unchanged blocked", func(t *testing.T) {
		svc, _ := newFixture()
		_, err := svc.Update(context.Background(), ownerA, 10, &models.UpdateBotRequest{
			Name: "A1", WhatsAppPhoneID: "p10", Enabled: true, Blocked: ptr.Ptr(false),
		})
		assert.NoError(t, err)
	})

	t.Run("admin blocks", func(t *testing.T) {
		svc, repo := newFixture()
		resp, err := svc.Update(context.Background(), admin, 10, &models.UpdateBotRequest{
			Name: "A1", WhatsAppPhoneID: "p10", Enabled: true, Blocked: ptr.Ptr(true),
		})
		require.NoError(t, err)
		assert.True(t, repo.bots[10].Blocked)
		assert.False(t, resp.Operational)
	})

	t.Run("cannot enable under suspended tenant", func(t *testing.T) {
		svc, _ := newFixture()
		_, err := svc.Update(context.Background(), admin, 20, &models.UpdateBotRequest{
			Name: "B1", WhatsAppPhoneID: "p20", Enabled: true,
		})
		assert.ErrorIs(t, err, ErrTenantNotActive)
	})

	t.Run("duplicate phone id", func(t *testing.T) {
		svc, repo := newFixture()
		repo.updateErr = botRepo.ErrPhoneIDTaken
		_, err := svc.Update(context.Background(), ownerA, 11, &models.UpdateBotRequest{
			Name: "A2", WhatsAppPhoneID: "p10",
		})
		assert.ErrorIs(t, err, ErrPhoneIDTaken)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("foreign bot", func(t *testing.T) {
		svc, _ := newFixture()
		_, err := svc.Update(context.Background(), ownerB, 10, &models.UpdateBotRequest{
			Name: "x", WhatsAppPhoneID: "p10",
		})
		assert.ErrorIs(t, err, ErrBotNotFound)
	})

	t.Run("phone id too long", func(t *testing.T) {
		svc, repo := newFixture()
		_, err := svc.Update(context.Background(), ownerA, 11, &models.UpdateBotRequest{
			Name: "A2", WhatsAppPhoneID: strings.Repeat("9", domain.MaxPhoneIDLength+1),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, "p11", repo.bots[11].WhatsAppPhoneID)
	})

	t.Run("phone id at limit", func(t *testing.T) {
		svc, _ := newFixture()
		_, err := svc.Update(context.Background(), ownerA, 11, &models.UpdateBotRequest{
			Name: "A2", WhatsAppPhoneID: strings.Repeat("9", domain.MaxPhoneIDLength),
		})
		assert.NoError(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		svc, _ := newFixture()
		_, err := svc.Update(context.Background(), ownerA, 10, &models.UpdateBotRequest{WhatsAppPhoneID: "p10"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestUpdate_UsesLockedTenantStatus(t *testing.T) {
	// Бот прочитан включённым при активном арендаторе, но арендатор уже приостановлен
	svc, repo, tenants := newFixtureWithTenants()
	tenants.statuses[1] = domain.TenantStatusSuspended

	_, err := svc.Update(context.Background(), ownerA, 10, &models.UpdateBotRequest{
		Name: "A1", WhatsAppPhoneID: "p10", Enabled: true,
	})
	assert.ErrorIs(t, err, ErrTenantNotActive)
	assert.True(t, tenants.lockedTx)
	assert.Equal(t, "A1", repo.bots[10].Name)

	// выключенный бот приостановленного арендатора редактировать можно
	resp, err := svc.Update(context.Background(), ownerA, 10, &models.UpdateBotRequest{
		Name: "A1 renamed", WhatsAppPhoneID: "p10",
	})
	require.NoError(t, err)
	assert.False(t, resp.Enabled)
	assert.False(t, repo.bots[10].Enabled)
}

func TestUpdate_RunsInTransaction(t *testing.T) {
	repo := &fakeBotRepo{bots: map[int64]*domain.Bot{
		10: {ID: 10, TenantID: 1, Name: "A1", WhatsAppPhoneID: "p10", TenantStatus: domain.TenantStatusActive},
	}}
	tx := &fakeTxManager{}
	tenants := &fakeTenantRepo{statuses: map[int64]domain.TenantStatus{1: domain.TenantStatusActive}}
	svc := NewService(repo, tenants, tx, logger.NewNop())

	_, err := svc.Update(context.Background(), ownerA, 10, &models.UpdateBotRequest{
		Name: "A1", WhatsAppPhoneID: "p10", Enabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)
	assert.True(t, tenants.lockedTx)
	assert.True(t, repo.bots[10].Enabled)
}

func TestDelete(t *testing.T) {
	svc, repo := newFixture()

	assert.ErrorIs(t, svc.Delete(context.Background(), ownerB, 10), ErrBotNotFound)
	require.NoError(t, svc.Delete(context.Background(), ownerA, 10))
	assert.NotContains(t, repo.bots, int64(10))
}

func TestToggleBlock(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.ToggleBlock(context.Background(), ownerA, 1, 10)
	assert.ErrorIs(t, err, access.ErrAdminRequired)

	resp, err := svc.ToggleBlock(context.Background(), admin, 1, 10)
	require.NoError(t, err)
	assert.True(t, resp.Blocked)
	assert.False(t, resp.Operational)

	resp, err = svc.ToggleBlock(context.Background(), admin, 1, 10)
	require.NoError(t, err)
	assert.False(t, resp.Blocked)
	assert.True(t, resp.Operational)

	_, err = svc.ToggleBlock(context.Background(), admin, 2, 10)
	assert.ErrorIs(t, err, ErrBotNotFound)
}
