package tenants

import (
	"net/http"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/api/handlers"
	botHandlers "github.com/m04kA/SMC-BotAdminService/internal/api/handlers/bots"
	"github.com/m04kA/SMC-BotAdminService/internal/api/middleware"
	botsService "github.com/m04kA/SMC-BotAdminService/internal/service/bots"
	tenantsService "github.com/m04kA/SMC-BotAdminService/internal/service/tenants"
	"github.com/m04kA/SMC-BotAdminService/internal/service/tenants/models"
	updateTenant "github.com/m04kA/SMC-BotAdminService/internal/usecase/update_tenant"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTenantID    = "некорректный ID арендатора"
	msgInvalidBotID       = "некорректный ID бота"
	msgInvalidPagination  = "некорректные параметры пагинации"
	msgAdminRequired      = "доступно только администратору"
	msgTenantNotFound     = "арендатор не найден"
	msgBotNotFound        = "бот не найден"
	msgInvalidStatus      = "недопустимый статус арендатора"
	msgInvalidOrdering    = "недопустимое значение сортировки"
	msgUsernameTaken      = "имя пользователя уже занято"
	msgNegativeBotLimit   = "лимит ботов не может быть отрицательным"
	msgBotLimitBelowCount = "лимит ботов меньше текущего количества ботов"
	msgNothingToUpdate    = "не указано ни одного поля для изменения"
	msgStatusRequired     = "укажите статус"
	msgBotLimitRequired   = "укажите max_bots_allowed"
	msgInvalidName        = "некорректное название арендатора"
	msgInvalidPhone       = "некорректный номер телефона"
	msgInvalidInput       = "некорректные данные арендатора"
)

var messages = map[error]string{
	access.ErrAdminRequired:            msgAdminRequired,
	tenantsService.ErrTenantNotFound:   msgTenantNotFound,
	tenantsService.ErrInvalidStatus:    msgInvalidStatus,
	tenantsService.ErrInvalidOrdering:  msgInvalidOrdering,
	tenantsService.ErrUsernameTaken:    msgUsernameTaken,
	tenantsService.ErrInvalidInput:     msgInvalidInput,
	updateTenant.ErrTenantNotFound:     msgTenantNotFound,
	updateTenant.ErrInvalidName:        msgInvalidName,
	updateTenant.ErrInvalidPhone:       msgInvalidPhone,
	updateTenant.ErrInvalidStatus:      msgInvalidStatus,
	updateTenant.ErrNegativeBotLimit:   msgNegativeBotLimit,
	updateTenant.ErrBotLimitBelowCount: msgBotLimitBelowCount,
	updateTenant.ErrNothingToUpdate:    msgNothingToUpdate,
	botsService.ErrBotNotFound:         msgBotNotFound,
}

type Handler struct {
	service      TenantService
	bots         BotService
	updateTenant UpdateTenantUseCase
	createBot    CreateBotUseCase
	logger       Logger
}

func NewHandler(
	service TenantService,
	bots BotService,
	updateTenant UpdateTenantUseCase,
	createBot CreateBotUseCase,
	logger Logger,
) *Handler {
	return &Handler{
		service:      service,
		bots:         bots,
		updateTenant: updateTenant,
		createBot:    createBot,
		logger:       logger,
	}
}

// List GET /api/v1/tenants?page=&page_size=&status=&search=&ordering=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	page, err := handlers.QueryInt(r, "page", 1)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPagination)
		return
	}
	pageSize, err := handlers.QueryInt(r, "page_size", 0)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPagination)
		return
	}

	req := &models.ListTenantsRequest{
		Page:     page,
		PageSize: pageSize,
		Status:   handlers.QueryString(r, "status"),
		Search:   r.URL.Query().Get("search"),
		Ordering: r.URL.Query().Get("ordering"),
	}

	resp, err := h.service.List(r.Context(), caller, req)
	if err != nil {
		h.respondError(w, "GET /tenants", caller, err, messages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Stats GET /api/v1/tenants/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	resp, err := h.service.Stats(r.Context(), caller)
	if err != nil {
		h.respondError(w, "GET /tenants/stats", caller, err, messages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Provision POST /api/v1/tenants
func (h *Handler) Provision(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.ProvisionTenantRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Provision(r.Context(), caller, &req)
	if err != nil {
		h.respondError(w, "POST /tenants", caller, err, messages)
		return
	}

	h.logger.Info("POST /tenants - Tenant provisioned: tenant_id=%d, user_id=%d", resp.ID, resp.UserID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// Get GET /api/v1/tenants/{tenantId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, tenantID, ok := h.callerAndTenant(w, r, "GET /tenants/{id}")
	if !ok {
		return
	}

	resp, err := h.service.GetByID(r.Context(), caller, tenantID)
	if err != nil {
		h.respondError(w, "GET /tenants/{id}", caller, err, messages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Update PUT /api/v1/tenants/{tenantId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, tenantID, ok := h.callerAndTenant(w, r, "PUT /tenants/{id}")
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if err := handlers.DecodeJSONStrict(r, &req); err != nil {
		h.logger.Warn("PUT /tenants/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	h.executeUpdate(w, r, "PUT /tenants/{id}", &updateTenant.Request{
		Caller:         caller,
		TenantID:       tenantID,
		Name:           req.Name,
		Phone:          req.Phone,
		AdminNotes:     req.AdminNotes,
		Status:         req.Status,
		MaxBotsAllowed: req.MaxBotsAllowed,
	})
}

// ChangeStatus POST /api/v1/tenants/{tenantId}/status
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	caller, tenantID, ok := h.callerAndTenant(w, r, "POST /tenants/{id}/status")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := handlers.DecodeJSONStrict(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Status == nil {
		handlers.RespondBadRequest(w, msgStatusRequired)
		return
	}

	h.executeUpdate(w, r, "POST /tenants/{id}/status", &updateTenant.Request{
		Caller:   caller,
		TenantID: tenantID,
		Status:   req.Status,
	})
}

// UpdateBotLimit POST /api/v1/tenants/{tenantId}/bot-limit
func (h *Handler) UpdateBotLimit(w http.ResponseWriter, r *http.Request) {
	caller, tenantID, ok := h.callerAndTenant(w, r, "POST /tenants/{id}/bot-limit")
	if !ok {
		return
	}

	var req BotLimitRequest
	if err := handlers.DecodeJSONStrict(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/bot-limit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.MaxBotsAllowed == nil {
		handlers.RespondBadRequest(w, msgBotLimitRequired)
		return
	}

	h.executeUpdate(w, r, "POST /tenants/{id}/bot-limit", &updateTenant.Request{
		Caller:         caller,
		TenantID:       tenantID,
		MaxBotsAllowed: req.MaxBotsAllowed,
	})
}

// Delete DELETE /api/v1/tenants/{tenantId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, tenantID, ok := h.callerAndTenant(w, r, "DELETE /tenants/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), caller, tenantID); err != nil {
		h.respondError(w, "DELETE /tenants/{id}", caller, err, messages)
		return
	}

	h.logger.Info("DELETE /tenants/{id} - Tenant deleted: tenant_id=%d, user_id=%d", tenantID, caller.UserID)
	handlers.RespondNoContent(w)
}

// Activity GET /api/v1/tenants/{tenantId}/activity
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	caller, tenantID, ok := h.callerAndTenant(w, r, "GET /tenants/{id}/activity")
	if !ok {
		return
	}

	resp, err := h.service.Activity(r.Context(), caller, tenantID)
	if err != nil {
		h.respondError(w, "GET /tenants/{id}/activity", caller, err, messages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// ListBots GET /api/v1/tenants/{tenantId}/bots
func (h *Handler) ListBots(w http.ResponseWriter, r *http.Request) {
	caller, tenantID, ok := h.callerAndTenant(w, r, "GET /tenants/{id}/bots")
	if !ok {
		return
	}

	if err := access.RequireAdmin(caller); err != nil {
		h.respondError(w, "GET /tenants/{id}/bots", caller, err, messages)
		return
	}

	resp, err := h.bots.List(r.Context(), caller, &tenantID)
	if err != nil {
		h.respondError(w, "GET /tenants/{id}/bots", caller, err, messages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// CreateBot POST /api/v1/tenants/{tenantId}/bots
func (h *Handler) CreateBot(w http.ResponseWriter, r *http.Request) {
	caller, tenantID, ok := h.callerAndTenant(w, r, "POST /tenants/{id}/bots")
	if !ok {
		return
	}

	if err := access.RequireAdmin(caller); err != nil {
		h.respondError(w, "POST /tenants/{id}/bots", caller, err, messages)
		return
	}

	var req botHandlers.CreateBotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/bots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.TenantID = &tenantID

	result, err := h.createBot.Execute(r.Context(), req.ToUseCaseRequest(caller))
	if err != nil {
		h.respondError(w, "POST /tenants/{id}/bots", caller, err, botHandlers.CreateMessages)
		return
	}

	h.logger.Info("POST /tenants/{id}/bots - Bot created: bot_id=%d, tenant_id=%d", result.ID, tenantID)
	handlers.RespondJSON(w, http.StatusCreated, botHandlers.FromUseCaseResponse(result))
}

// ToggleBlock POST /api/v1/tenants/{tenantId}/bots/{botId}/block
func (h *Handler) ToggleBlock(w http.ResponseWriter, r *http.Request) {
	caller, tenantID, ok := h.callerAndTenant(w, r, "POST /tenants/{id}/bots/{botId}/block")
	if !ok {
		return
	}

	botID, err := handlers.PathID(r, "botId")
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/bots/{botId}/block - Invalid bot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBotID)
		return
	}

	resp, err := h.bots.ToggleBlock(r.Context(), caller, tenantID, botID)
	if err != nil {
		h.respondError(w, "POST /tenants/{id}/bots/{botId}/block", caller, err, messages)
		return
	}

	h.logger.Info("POST /tenants/{id}/bots/{botId}/block - Bot block toggled: bot_id=%d, blocked=%t", botID, resp.Blocked)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) executeUpdate(w http.ResponseWriter, r *http.Request, route string, req *updateTenant.Request) {
	result, err := h.updateTenant.Execute(r.Context(), req)
	if err != nil {
		h.respondError(w, route, req.Caller, err, messages)
		return
	}

	h.logger.Info("%s - Tenant updated: tenant_id=%d, status=%s, max_bots_allowed=%d, disabled_bots=%d",
		route, result.ID, result.Status, result.MaxBotsAllowed, result.DisabledBots)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) callerAndTenant(w http.ResponseWriter, r *http.Request, route string) (access.Caller, int64, bool) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return access.Caller{}, 0, false
	}

	tenantID, err := handlers.PathID(r, "tenantId")
	if err != nil {
		h.logger.Warn("%s - Invalid tenant ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return access.Caller{}, 0, false
	}

	return caller, tenantID, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, caller access.Caller, err error, msgs map[error]string) {
	status := handlers.RespondCategorized(w, err, msgs)
	if status == http.StatusInternalServerError {
		h.logger.Error("%s - Failed: user_id=%d, error=%v", route, caller.UserID, err)
		return
	}
	h.logger.Warn("%s - Rejected: user_id=%d, status=%d, reason=%v", route, caller.UserID, status, err)
}
