package services

import (
	"net/http"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/api/handlers"
	"github.com/m04kA/SMC-BotAdminService/internal/api/middleware"
	catalogService "github.com/m04kA/SMC-BotAdminService/internal/service/catalog"
	"github.com/m04kA/SMC-BotAdminService/internal/service/catalog/models"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidBotID       = "некорректный ID бота"
	msgServiceNotFound    = "услуга не найдена"
	msgBotNotFound        = "бот не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidInput       = "некорректные данные услуги"
	msgNegativePrice      = "цена не может быть отрицательной"
)

var messages = map[error]string{
	catalogService.ErrServiceNotFound: msgServiceNotFound,
	catalogService.ErrBotNotFound:     msgBotNotFound,
	catalogService.ErrInvalidInput:    msgInvalidInput,
	catalogService.ErrNegativePrice:   msgNegativePrice,
	access.ErrAccessDenied:            msgForbidden,
}

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/services?bot_id=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	botID, err := handlers.QueryInt64(r, "bot_id")
	if err != nil {
		h.logger.Warn("GET /services - Invalid bot_id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBotID)
		return
	}

	resp, err := h.service.List(r.Context(), caller, botID)
	if err != nil {
		h.respondError(w, "GET /services", caller, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Create POST /api/v1/services
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.ServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Create(r.Context(), caller, &req)
	if err != nil {
		h.respondError(w, "POST /services", caller, err)
		return
	}

	h.logger.Info("POST /services - Service created: service_id=%d, bot_id=%d, user_id=%d", resp.ID, resp.BotID, caller.UserID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// Get GET /api/v1/services/{serviceId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r, "GET /services/{id}")
	if !ok {
		return
	}

	resp, err := h.service.GetByID(r.Context(), caller, id)
	if err != nil {
		h.respondError(w, "GET /services/{id}", caller, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Update PUT /api/v1/services/{serviceId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r, "PUT /services/{id}")
	if !ok {
		return
	}

	var req models.ServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /services/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Update(r.Context(), caller, id, &req)
	if err != nil {
		h.respondError(w, "PUT /services/{id}", caller, err)
		return
	}

	h.logger.Info("PUT /services/{id} - Service updated: service_id=%d, user_id=%d", id, caller.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Delete DELETE /api/v1/services/{serviceId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r, "DELETE /services/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		h.respondError(w, "DELETE /services/{id}", caller, err)
		return
	}

	h.logger.Info("DELETE /services/{id} - Service deleted: service_id=%d, user_id=%d", id, caller.UserID)
	handlers.RespondNoContent(w)
}

func (h *Handler) callerAndID(w http.ResponseWriter, r *http.Request, route string) (access.Caller, int64, bool) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return access.Caller{}, 0, false
	}

	id, err := handlers.PathID(r, "serviceId")
	if err != nil {
		h.logger.Warn("%s - Invalid service ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return access.Caller{}, 0, false
	}

	return caller, id, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, caller access.Caller, err error) {
	status := handlers.RespondCategorized(w, err, messages)
	if status == http.StatusInternalServerError {
		h.logger.Error("%s - Failed: user_id=%d, error=%v", route, caller.UserID, err)
		return
	}
	h.logger.Warn("%s - Rejected: user_id=%d, status=%d, reason=%v", route, caller.UserID, status, err)
}
