package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
	userRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/user"
	"github.com/m04kA/SMC-BotAdminService/internal/service/auth/models"
	dashboardModels "github.com/m04kA/SMC-BotAdminService/internal/service/dashboard/models"
	"github.com/m04kA/SMC-BotAdminService/pkg/jwtauth"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
	"github.com/m04kA/SMC-BotAdminService/pkg/password"
	"github.com/m04kA/SMC-BotAdminService/pkg/ptr"
)

type userRepoMock struct {
	users     map[int64]*domain.User
	lastLogin map[int64]time.Time
}

func (m *userRepoMock) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *userRepoMock) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, userRepo.ErrUserNotFound
}

func (m *userRepoMock) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	m.lastLogin[id] = at
	return nil
}

type tenantRepoMock struct {
	byUser     map[int64]int64
	lastAccess map[int64]time.Time
	findErr    error
}

func (m *tenantRepoMock) FindIDByUserID(ctx context.Context, userID int64) (*int64, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	id, ok := m.byUser[userID]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (m *tenantRepoMock) GetByID(ctx context.Context, id int64, month domain.Period) (*domain.Tenant, error) {
	if id != 10 {
		return nil, tenantRepo.ErrTenantNotFound
	}
	return &domain.Tenant{ID: 10, UserID: 2, Name: "Peluquería Sol", Status: domain.TenantStatusActive, MaxBotsAllowed: 3}, nil
}

func (m *tenantRepoMock) TouchLastAccess(ctx context.Context, id int64, at time.Time) error {
	m.lastAccess[id] = at
	return nil
}

type tokenStoreMock struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func (m *tokenStoreMock) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = expiresAt
	return nil
}

func (m *tokenStoreMock) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	users   *userRepoMock
	tenants *tenantRepoMock
	store   *tokenStoreMock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hash, err := password.Hash("correct-horse")
	require.NoError(t, err)

	f := &fixture{
		users: &userRepoMock{
			lastLogin: map[int64]time.Time{},
			users: map[int64]*domain.User{
				1: {ID: 1, Username: "root", PasswordHash: hash, IsStaff: true, IsActive: true},
				2: {ID: 2, Username: "sol", PasswordHash: hash, FirstName: "Ana", IsActive: true},
				3: {ID: 3, Username: "gone", PasswordHash: hash, IsActive: false},
				4: {ID: 4, Username: "plain", PasswordHash: hash, IsActive: true},
			},
		},
		tenants: &tenantRepoMock{
			byUser:     map[int64]int64{2: 10},
			lastAccess: map[int64]time.Time{},
		},
		store: &tokenStoreMock{revoked: map[string]time.Time{}},
	}

	issuer := jwtauth.NewIssuer("test-secret", "bot-admin-test", time.Hour)
	f.svc = NewService(f.users, f.tenants, issuer, f.store, time.UTC, logger.NewNop())
	f.svc.timeProvider = fixedTime{now: now}
	return f
}

func TestLogin(t *testing.T) {
	t.Run("tenant owner", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.Login(context.Background(), &models.LoginRequest{Username: "sol", Password: "correct-horse"})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, dashboardModels.TypeTenant, resp.DashboardType)
		assert.Equal(t, "Ana", resp.User.FullName)
		require.NotNil(t, resp.Tenant)
		assert.Equal(t, int64(10), resp.Tenant.ID)

		assert.Equal(t, now, f.users.lastLogin[2])
		assert.Equal(t, now, f.tenants.lastAccess[10])
	})

	t.Run("administrator", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.Login(context.Background(), &models.LoginRequest{Username: "root", Password: "correct-horse"})
		require.NoError(t, err)
		assert.Equal(t, dashboardModels.TypeAdmin, resp.DashboardType)
		assert.Nil(t, resp.Tenant)
		assert.Empty(t, f.tenants.lastAccess)
	})

	t.Run("limited", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.Login(context.Background(), &models.LoginRequest{Username: "plain", Password: "correct-horse"})
		require.NoError(t, err)
		assert.Equal(t, dashboardModels.TypeLimited, resp.DashboardType)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Login(context.Background(), &models.LoginRequest{Username: "sol", Password: "wrong-horse"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.Empty(t, f.users.lastLogin)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Login(context.Background(), &models.LoginRequest{Username: "nobody", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Login(context.Background(), &models.LoginRequest{Username: "gone", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrAccountDisabled)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Login(context.Background(), &models.LoginRequest{Username: "sol"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, &models.LoginRequest{Username: "sol", Password: "correct-horse"})
	require.NoError(t, err)

	session, err := f.svc.Authenticate(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(2), session.Caller.UserID)
	assert.False(t, session.Caller.IsAdmin)
	require.NotNil(t, session.Caller.TenantID)
	assert.Equal(t, int64(10), *session.Caller.TenantID)
	assert.NotEmpty(t, session.TokenID)

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.svc.Authenticate(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token of another issuer", func(t *testing.T) {
		other := jwtauth.NewIssuer("test-secret", "someone-else", time.Hour)
		token, err := other.Issue(2, "sol", false)
		require.NoError(t, err)
		_, err = f.svc.Authenticate(ctx, token.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("user disabled after login", func(t *testing.T) {
		f.users.users[2].IsActive = false
		defer func() { f.users.users[2].IsActive = true }()
		_, err := f.svc.Authenticate(ctx, login.AccessToken)
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})

	t.Run("revoked after logout", func(t *testing.T) {
		_, err := f.svc.Logout(ctx, session)
		require.NoError(t, err)
		assert.Contains(t, f.store.revoked, session.TokenID)

		_, err = f.svc.Authenticate(ctx, login.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	f := newFixture(t)
	login, err := f.svc.Login(context.Background(), &models.LoginRequest{Username: "root", Password: "correct-horse"})
	require.NoError(t, err)

	f.store.err = errors.New("redis down")
	_, err = f.svc.Authenticate(context.Background(), login.AccessToken)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestMe(t *testing.T) {
	f := newFixture(t)

	owner, err := f.svc.Me(context.Background(), callerFor(2, ptr.Ptr(int64(10))))
	require.NoError(t, err)
	assert.Equal(t, "sol", owner.User.Username)
	require.NotNil(t, owner.Tenant)
	assert.Equal(t, "Peluquería Sol", owner.Tenant.Name)

	admin, err := f.svc.Me(context.Background(), callerFor(1, nil))
	require.NoError(t, err)
	assert.Nil(t, admin.Tenant)
}

func callerFor(userID int64, tenantID *int64) access.Caller {
	return access.Caller{UserID: userID, IsAdmin: tenantID == nil, TenantID: tenantID}
}
