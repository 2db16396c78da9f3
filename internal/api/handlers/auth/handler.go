package auth

import (
	"net/http"

	"github.com/m04kA/SMC-BotAdminService/internal/api/handlers"
	"github.com/m04kA/SMC-BotAdminService/internal/api/middleware"
	authService "github.com/m04kA/SMC-BotAdminService/internal/service/auth"
	"github.com/m04kA/SMC-BotAdminService/internal/service/auth/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCredentials = "неверное имя пользователя или пароль"
	msgAccountDisabled    = "учётная запись отключена"
	msgMissingCredentials = "укажите имя пользователя и пароль"
	msgUnauthorized       = "требуется авторизация"
)

type Handler struct {
	service AuthService
	logger  Logger
}

func NewHandler(service AuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Login POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		status := handlers.RespondCategorized(w, err, map[error]string{
			authService.ErrInvalidCredentials: msgInvalidCredentials,
			authService.ErrAccountDisabled:    msgAccountDisabled,
			authService.ErrInvalidInput:       msgMissingCredentials,
		})
		if status == http.StatusInternalServerError {
			h.logger.Error("POST /auth/login - Failed to login: username=%q, error=%v", req.Username, err)
		} else {
			h.logger.Warn("POST /auth/login - Login rejected: username=%q, status=%d", req.Username, status)
		}
		return
	}

	h.logger.Info("POST /auth/login - Logged in: user_id=%d, dashboard=%s", resp.User.ID, resp.DashboardType)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Logout POST /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	resp, err := h.service.Logout(r.Context(), session)
	if err != nil {
		h.logger.Error("POST /auth/logout - Failed to logout: user_id=%d, error=%v", session.Caller.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /auth/logout - Logged out: user_id=%d", session.Caller.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Me GET /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	resp, err := h.service.Me(r.Context(), caller)
	if err != nil {
		if status := handlers.RespondCategorized(w, err, nil); status == http.StatusInternalServerError {
			h.logger.Error("GET /auth/me - Failed to get profile: user_id=%d, error=%v", caller.UserID, err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
