package bots

import (
	"net/http"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/api/handlers"
	"github.com/m04kA/SMC-BotAdminService/internal/api/middleware"
	botsService "github.com/m04kA/SMC-BotAdminService/internal/service/bots"
	"github.com/m04kA/SMC-BotAdminService/internal/service/bots/models"
	createBot "github.com/m04kA/SMC-BotAdminService/internal/usecase/create_bot"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBotID       = "некорректный ID бота"
	msgInvalidTenantID    = "некорректный ID арендатора"
	msgBotNotFound        = "бот не найден"
	msgForbidden          = "доступ запрещен"
	msgTenantNotActive    = "арендатор приостановлен или неактивен"
	msgQuotaExceeded      = "достигнут лимит ботов арендатора"
	msgTenantNotSpecified = "администратор должен указать арендатора"
	msgTenantNotFound     = "арендатор не найден"
	msgPhoneIDTaken       = "WhatsApp phone id уже используется"
	msgBlockedAdminOnly   = "блокировку бота меняет только администратор"
	msgInvalidName        = "некорректное название бота"
	msgInvalidPhoneID     = "некорректный WhatsApp phone id"
)

// CreateMessages тексты ответов для ошибок создания бота
var CreateMessages = map[error]string{
	createBot.ErrInvalidName:        msgInvalidName,
	createBot.ErrInvalidPhoneID:     msgInvalidPhoneID,
	createBot.ErrTenantNotSpecified: msgTenantNotSpecified,
	createBot.ErrTenantNotFound:     msgTenantNotFound,
	createBot.ErrTenantNotActive:    msgTenantNotActive,
	createBot.ErrQuotaExceeded:      msgQuotaExceeded,
	createBot.ErrPhoneIDTaken:       msgPhoneIDTaken,
	access.ErrAccessDenied:          msgForbidden,
}

var messages = map[error]string{
	botsService.ErrBotNotFound:      msgBotNotFound,
	botsService.ErrTenantNotActive:  msgTenantNotActive,
	botsService.ErrBlockedAdminOnly: msgBlockedAdminOnly,
	botsService.ErrPhoneIDTaken:     msgPhoneIDTaken,
}

type Handler struct {
	service   BotService
	createBot CreateBotUseCase
	logger    Logger
}

func NewHandler(service BotService, createBot CreateBotUseCase, logger Logger) *Handler {
	return &Handler{
		service:   service,
		createBot: createBot,
		logger:    logger,
	}
}

// List GET /api/v1/bots
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	tenantID, err := handlers.QueryInt64(r, "tenant_id")
	if err != nil {
		h.logger.Warn("GET /bots - Invalid tenant_id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	resp, err := h.service.List(r.Context(), caller, tenantID)
	if err != nil {
		h.respondError(w, "GET /bots", caller, err, messages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Create POST /api/v1/bots
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.createBot.Execute(r.Context(), req.ToUseCaseRequest(caller))
	if err != nil {
		h.respondError(w, "POST /bots", caller, err, CreateMessages)
		return
	}

	h.logger.Info("POST /bots - Bot created successfully: bot_id=%d, tenant_id=%d, user_id=%d",
		result.ID, result.TenantID, caller.UserID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// Get GET /api/v1/bots/{botId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	botID, err := handlers.PathID(r, "botId")
	if err != nil {
		h.logger.Warn("GET /bots/{id} - Invalid bot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBotID)
		return
	}

	resp, err := h.service.GetByID(r.Context(), caller, botID)
	if err != nil {
		h.respondError(w, "GET /bots/{id}", caller, err, messages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Update PUT /api/v1/bots/{botId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	botID, err := handlers.PathID(r, "botId")
	if err != nil {
		h.logger.Warn("PUT /bots/{id} - Invalid bot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBotID)
		return
	}

	var req models.UpdateBotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bots/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Update(r.Context(), caller, botID, &req)
	if err != nil {
		h.respondError(w, "PUT /bots/{id}", caller, err, messages)
		return
	}

	h.logger.Info("PUT /bots/{id} - Bot updated successfully: bot_id=%d, user_id=%d", botID, caller.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Delete DELETE /api/v1/bots/{botId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	botID, err := handlers.PathID(r, "botId")
	if err != nil {
		h.logger.Warn("DELETE /bots/{id} - Invalid bot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBotID)
		return
	}

	if err := h.service.Delete(r.Context(), caller, botID); err != nil {
		h.respondError(w, "DELETE /bots/{id}", caller, err, messages)
		return
	}

	h.logger.Info("DELETE /bots/{id} - Bot deleted successfully: bot_id=%d, user_id=%d", botID, caller.UserID)
	handlers.RespondNoContent(w)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, caller access.Caller, err error, msgs map[error]string) {
	status := handlers.RespondCategorized(w, err, msgs)
	if status == http.StatusInternalServerError {
		h.logger.Error("%s - Failed: user_id=%d, error=%v", route, caller.UserID, err)
		return
	}
	h.logger.Warn("%s - Rejected: user_id=%d, status=%d, reason=%v", route, caller.UserID, status, err)
}
