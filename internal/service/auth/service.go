package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
	userRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/user"
	"github.com/m04kA/SMC-BotAdminService/internal/service/auth/models"
	dashboardModels "github.com/m04kA/SMC-BotAdminService/internal/service/dashboard/models"
	tenantModels "github.com/m04kA/SMC-BotAdminService/internal/service/tenants/models"
	"github.com/m04kA/SMC-BotAdminService/pkg/password"
)

const tokenType = "Bearer"

// Session аутентифицированный запрос: вызывающий и данные его токена
type Session struct {
	Caller    access.Caller
	TokenID   string
	ExpiresAt time.Time
}

// Service граница аутентификации: вход, выход, проверка токена
type Service struct {
	userRepo     UserRepository
	tenantRepo   TenantRepository
	issuer       TokenIssuer
	tokenStore   TokenStore
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса аутентификации
func NewService(
	userRepo UserRepository,
	tenantRepo TenantRepository,
	issuer TokenIssuer,
	tokenStore TokenStore,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		userRepo:     userRepo,
		tenantRepo:   tenantRepo,
		issuer:       issuer,
		tokenStore:   tokenStore,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// Login проверяет пароль, выпускает токен и отмечает время входа
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	s.logger.Info("Login: attempt for username=%q", username)

	if username == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Login: unknown username=%q", username)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: failed to get user username=%q: %v", username, err)
		return nil, fmt.Errorf("%w: Login - get user: %v", ErrInternal, err)
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			s.logger.Warn("Login: wrong password for user id=%d", user.ID)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: failed to compare password for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: Login - compare password: %v", ErrInternal, err)
	}

	if !user.IsActive {
		s.logger.Warn("Login: user id=%d is disabled", user.ID)
		return nil, ErrAccountDisabled
	}

	now := s.timeProvider.Now()

	tenantID, err := s.tenantRepo.FindIDByUserID(ctx, user.ID)
	if err != nil {
		s.logger.Error("Login: failed to resolve tenant for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: Login - resolve tenant: %v", ErrInternal, err)
	}

	token, err := s.issuer.Issue(user.ID, user.Username, user.IsStaff)
	if err != nil {
		s.logger.Error("Login: failed to issue token for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: Login - issue token: %v", ErrInternal, err)
	}

	// Отметки времени входа не должны ломать вход
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("Login: failed to update last login of user id=%d: %v", user.ID, err)
	} else {
		user.LastLogin = &now
	}
	if tenantID != nil {
		if err := s.tenantRepo.TouchLastAccess(ctx, *tenantID, now); err != nil {
			s.logger.Warn("Login: failed to update last access of tenant id=%d: %v", *tenantID, err)
		}
	}

	caller := access.Caller{UserID: user.ID, Username: user.Username, IsAdmin: user.IsStaff, TenantID: tenantID}

	tenant, err := s.tenantView(ctx, tenantID, now, "Login")
	if err != nil {
		return nil, err
	}

	s.logger.Info("Login: user id=%d logged in, token id=%s", user.ID, token.ID)
	return &models.LoginResponse{
		AccessToken:   token.Value,
		TokenType:     tokenType,
		ExpiresAt:     token.ExpiresAt,
		DashboardType: dashboardModels.TypeFor(caller),
		User:          models.FromDomainUser(user),
		Tenant:        tenant,
	}, nil
}

// Authenticate проверяет токен, список отозванных и активность учётной записи.
// Ссылка на арендатора определяется заново на каждый запрос.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*Session, error) {
	claims, err := s.issuer.Parse(rawToken)
	if err != nil {
		s.logger.Warn("Authenticate: token rejected: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Authenticate: failed to check revocation of token id=%s: %v", claims.ID, err)
		return nil, fmt.Errorf("%w: Authenticate - check revocation: %v", ErrInternal, err)
	}
	if revoked {
		s.logger.Warn("Authenticate: token id=%s is revoked", claims.ID)
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Authenticate: user id=%d no longer exists", claims.UserID)
			return nil, ErrInvalidToken
		}
		s.logger.Error("Authenticate: failed to get user id=%d: %v", claims.UserID, err)
		return nil, fmt.Errorf("%w: Authenticate - get user: %v", ErrInternal, err)
	}
	if !user.IsActive {
		s.logger.Warn("Authenticate: user id=%d is disabled", user.ID)
		return nil, ErrAccountDisabled
	}

	tenantID, err := s.tenantRepo.FindIDByUserID(ctx, user.ID)
	if err != nil {
		s.logger.Error("Authenticate: failed to resolve tenant for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: Authenticate - resolve tenant: %v", ErrInternal, err)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &Session{
		Caller: access.Caller{
			UserID:   user.ID,
			Username: user.Username,
			IsAdmin:  user.IsStaff,
			TenantID: tenantID,
		},
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// Me текущий пользователь и его арендатор
func (s *Service) Me(ctx context.Context, caller access.Caller) (*models.MeResponse, error) {
	s.logger.Info("Me: fetching profile of user=%d", caller.UserID)

	user, err := s.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Error("Me: failed to get user id=%d: %v", caller.UserID, err)
		return nil, fmt.Errorf("%w: Me - get user: %v", ErrInternal, err)
	}

	tenant, err := s.tenantView(ctx, caller.TenantID, s.timeProvider.Now(), "Me")
	if err != nil {
		return nil, err
	}

	return &models.MeResponse{
		User:          models.FromDomainUser(user),
		Tenant:        tenant,
		DashboardType: dashboardModels.TypeFor(caller),
	}, nil
}

// Logout отзывает токен до окончания его срока действия
func (s *Service) Logout(ctx context.Context, session *Session) (*models.LogoutResponse, error) {
	s.logger.Info("Logout: user=%d token id=%s", session.Caller.UserID, session.TokenID)

	if err := s.tokenStore.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		s.logger.Error("Logout: failed to revoke token id=%s: %v", session.TokenID, err)
		return nil, fmt.Errorf("%w: Logout - revoke token: %v", ErrInternal, err)
	}

	return &models.LogoutResponse{Message: "logged out"}, nil
}

func (s *Service) tenantView(ctx context.Context, tenantID *int64, now time.Time, op string) (*tenantModels.TenantResponse, error) {
	if tenantID == nil {
		return nil, nil
	}

	month := domain.NewSnapshotPeriod(now, s.location).CurrentMonth()

	tenant, err := s.tenantRepo.GetByID(ctx, *tenantID, month)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			// профиль удалён между запросами
			return nil, nil
		}
		s.logger.Error("%s: failed to get tenant id=%d: %v", op, *tenantID, err)
		return nil, fmt.Errorf("%w: %s - get tenant: %v", ErrInternal, op, err)
	}

	return tenantModels.FromDomainTenant(tenant, now), nil
}
