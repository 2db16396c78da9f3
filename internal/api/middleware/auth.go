package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/api/handlers"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	"github.com/m04kA/SMC-BotAdminService/internal/service/auth"
)

const (
	msgMissingToken = "отсутствует токен авторизации"
	msgInvalidToken = "недействительный токен авторизации"
	msgDisabled     = "учётная запись отключена"

	bearerPrefix = "Bearer "
)

type sessionKey struct{}

// Authenticator проверка access-токена
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*auth.Session, error)
}

// Auth проверяет Bearer токен и кладёт сессию в контекст запроса
func Auth(authenticator Authenticator, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				logger.Warn("Auth: missing bearer token: method=%s, path=%s", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			session, err := authenticator.Authenticate(r.Context(), strings.TrimSpace(header[len(bearerPrefix):]))
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrAccountDisabled):
					handlers.RespondUnauthorized(w, msgDisabled)
				case errors.Is(err, domain.ErrUnauthenticated):
					handlers.RespondUnauthorized(w, msgInvalidToken)
				default:
					logger.Error("Auth: failed to authenticate: path=%s, error=%v", r.URL.Path, err)
					handlers.RespondInternalError(w)
				}
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession сессия аутентифицированного запроса
func GetSession(ctx context.Context) (*auth.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*auth.Session)
	return session, ok && session != nil
}

// GetCaller вызывающий аутентифицированного запроса
func GetCaller(ctx context.Context) (access.Caller, bool) {
	session, ok := GetSession(ctx)
	if !ok {
		return access.Caller{}, false
	}
	return session.Caller, true
}

// WithSession кладёт сессию в контекст (для тестов обработчиков)
func WithSession(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}
