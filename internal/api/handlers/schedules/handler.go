package schedules

import (
	"net/http"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/api/handlers"
	"github.com/m04kA/SMC-BotAdminService/internal/api/middleware"
	schedulesService "github.com/m04kA/SMC-BotAdminService/internal/service/schedules"
	"github.com/m04kA/SMC-BotAdminService/internal/service/schedules/models"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidScheduleID  = "некорректный ID окна расписания"
	msgInvalidBotID       = "некорректный ID бота"
	msgWindowNotFound     = "окно расписания не найдено"
	msgBotNotFound        = "бот не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidDay         = "день недели должен быть от 0 до 6"
	msgInvalidTimeRange   = "время окончания должно быть позже времени начала"
)

var messages = map[error]string{
	schedulesService.ErrWindowNotFound:   msgWindowNotFound,
	schedulesService.ErrBotNotFound:      msgBotNotFound,
	schedulesService.ErrInvalidDay:       msgInvalidDay,
	schedulesService.ErrInvalidTimeRange: msgInvalidTimeRange,
	access.ErrAccessDenied:               msgForbidden,
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/schedules?bot_id=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	botID, err := handlers.QueryInt64(r, "bot_id")
	if err != nil {
		h.logger.Warn("GET /schedules - Invalid bot_id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBotID)
		return
	}

	resp, err := h.service.List(r.Context(), caller, botID)
	if err != nil {
		h.respondError(w, "GET /schedules", caller, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Create POST /api/v1/schedules
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	// TimeString сам проверяет формат HH:MM при разборе
	var req models.ScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Create(r.Context(), caller, &req)
	if err != nil {
		h.respondError(w, "POST /schedules", caller, err)
		return
	}

	h.logger.Info("POST /schedules - Window created: schedule_id=%d, bot_id=%d, day=%d", resp.ID, resp.BotID, resp.DayOfWeek)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// Get GET /api/v1/schedules/{scheduleId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r, "GET /schedules/{id}")
	if !ok {
		return
	}

	resp, err := h.service.GetByID(r.Context(), caller, id)
	if err != nil {
		h.respondError(w, "GET /schedules/{id}", caller, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Update PUT /api/v1/schedules/{scheduleId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r, "PUT /schedules/{id}")
	if !ok {
		return
	}

	var req models.ScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schedules/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Update(r.Context(), caller, id, &req)
	if err != nil {
		h.respondError(w, "PUT /schedules/{id}", caller, err)
		return
	}

	h.logger.Info("PUT /schedules/{id} - Window updated: schedule_id=%d, user_id=%d", id, caller.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Delete DELETE /api/v1/schedules/{scheduleId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r, "DELETE /schedules/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		h.respondError(w, "DELETE /schedules/{id}", caller, err)
		return
	}

	h.logger.Info("DELETE /schedules/{id} - Window deleted: schedule_id=%d, user_id=%d", id, caller.UserID)
	handlers.RespondNoContent(w)
}

func (h *Handler) callerAndID(w http.ResponseWriter, r *http.Request, route string) (access.Caller, int64, bool) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return access.Caller{}, 0, false
	}

	id, err := handlers.PathID(r, "scheduleId")
	if err != nil {
		h.logger.Warn("%s - Invalid schedule ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
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
