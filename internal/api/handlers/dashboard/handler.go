package dashboard

import (
	"net/http"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/api/handlers"
	"github.com/m04kA/SMC-BotAdminService/internal/api/middleware"
	dashboardService "github.com/m04kA/SMC-BotAdminService/internal/service/dashboard"
)

const (
	msgUnauthorized   = "требуется авторизация"
	msgAdminRequired  = "доступно только администратору"
	msgTenantRequired = "у пользователя нет профиля арендатора"
	msgTenantNotFound = "арендатор не найден"
)

var messages = map[error]string{
	access.ErrAdminRequired:            msgAdminRequired,
	access.ErrTenantRequired:           msgTenantRequired,
	dashboardService.ErrTenantNotFound: msgTenantNotFound,
}

type Handler struct {
	service DashboardService
	logger  Logger
}

func NewHandler(service DashboardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Admin GET /api/v1/dashboard/admin
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	resp, err := h.service.AdminSnapshot(r.Context(), caller)
	if err != nil {
		h.respondError(w, "GET /dashboard/admin", caller, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Tenant GET /api/v1/dashboard/tenant
func (h *Handler) Tenant(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	resp, err := h.service.TenantSnapshot(r.Context(), caller)
	if err != nil {
		h.respondError(w, "GET /dashboard/tenant", caller, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Config GET /api/v1/dashboard/config
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	resp, err := h.service.Config(r.Context(), caller)
	if err != nil {
		h.respondError(w, "GET /dashboard/config", caller, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, caller access.Caller, err error) {
	status := handlers.RespondCategorized(w, err, messages)
	if status == http.StatusInternalServerError {
		h.logger.Error("%s - Failed: user_id=%d, error=%v", route, caller.UserID, err)
		return
	}
	h.logger.Warn("%s - Rejected: user_id=%d, status=%d", route, caller.UserID, status)
}
