package reservations

import (
	"net/http"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/api/handlers"
	"github.com/m04kA/SMC-BotAdminService/internal/api/middleware"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	reservationsService "github.com/m04kA/SMC-BotAdminService/internal/service/reservations"
	"github.com/m04kA/SMC-BotAdminService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-BotAdminService/internal/usecase/create_reservation"
)

const (
	msgUnauthorized        = "требуется авторизация"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidReservation  = "некорректный ID бронирования"
	msgInvalidBotID        = "некорректный ID бота"
	msgReservationNotFound = "бронирование не найдено"
	msgBotNotFound         = "бот не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgServiceBotMismatch  = "услуга принадлежит другому боту"
	msgSlotTaken           = "это время у бота уже занято"
	msgCancellationWindow  = "отменить бронирование можно не позднее чем за 24 часа до начала"
	msgForbidden           = "доступ запрещен"
	msgInvalidStatus       = "недопустимый статус бронирования"
	msgCreateStatus        = "при создании допустим только статус confirmed или pending"
	msgCustomerName        = "некорректное имя клиента"
	msgCustomerPhone       = "некорректный телефон клиента"
	msgNotesTooLong        = "слишком длинный комментарий"
	msgStartMissing        = "укажите start или date и time"
	msgInvalidDate         = "некорректная дата, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректное время, ожидается HH:MM"
	msgInvalidRange        = "окончание должно быть позже начала"
)

var messages = map[error]string{
	reservationsService.ErrReservationNotFound: msgReservationNotFound,
	reservationsService.ErrBotNotFound:         msgBotNotFound,
	reservationsService.ErrServiceNotFound:     msgServiceNotFound,
	reservationsService.ErrServiceBotMismatch:  msgServiceBotMismatch,
	reservationsService.ErrSlotTaken:           msgSlotTaken,
	reservationsService.ErrCancellationWindow:  msgCancellationWindow,
	createReservation.ErrInvalidStatus:         msgCreateStatus,
	createReservation.ErrBotNotFound:           msgBotNotFound,
	createReservation.ErrServiceNotFound:       msgServiceNotFound,
	createReservation.ErrServiceBotMismatch:    msgServiceBotMismatch,
	createReservation.ErrSlotTaken:             msgSlotTaken,
	domain.ErrInvalidReservationStatus:         msgInvalidStatus,
	domain.ErrInvalidCustomerName:              msgCustomerName,
	domain.ErrInvalidCustomerPhone:             msgCustomerPhone,
	domain.ErrNotesTooLong:                     msgNotesTooLong,
	domain.ErrSlotStartMissing:                 msgStartMissing,
	domain.ErrSlotInvalidDate:                  msgInvalidDate,
	domain.ErrSlotInvalidTime:                  msgInvalidTime,
	domain.ErrSlotInvalidRange:                 msgInvalidRange,
	access.ErrAccessDenied:                     msgForbidden,
}

type Handler struct {
	service           ReservationService
	createReservation CreateReservationUseCase
	logger            Logger
}

func NewHandler(service ReservationService, createReservation CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		service:           service,
		createReservation: createReservation,
		logger:            logger,
	}
}

// List GET /api/v1/reservations?date=&bot_id=&status=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	botID, err := handlers.QueryInt64(r, "bot_id")
	if err != nil {
		h.logger.Warn("GET /reservations - Invalid bot_id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBotID)
		return
	}

	req := &models.ListReservationsRequest{
		Date:   handlers.QueryString(r, "date"),
		BotID:  botID,
		Status: handlers.QueryString(r, "status"),
	}

	resp, err := h.service.List(r.Context(), caller, req)
	if err != nil {
		h.respondError(w, "GET /reservations", caller, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Create POST /api/v1/reservations
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.createReservation.Execute(r.Context(), req.ToUseCaseRequest(caller))
	if err != nil {
		h.respondError(w, "POST /reservations", caller, err)
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, bot_id=%d, start=%s",
		result.ID, result.BotID, result.StartAt.Format("2006-01-02 15:04"))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// Get GET /api/v1/reservations/{reservationId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r, "GET /reservations/{id}")
	if !ok {
		return
	}

	resp, err := h.service.GetByID(r.Context(), caller, id)
	if err != nil {
		h.respondError(w, "GET /reservations/{id}", caller, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Replace PUT /api/v1/reservations/{reservationId}
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r, "PUT /reservations/{id}")
	if !ok {
		return
	}

	var req models.ReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.Replace(r.Context(), caller, id, &req)
	if err != nil {
		h.respondError(w, "PUT /reservations/{id}", caller, err)
		return
	}

	h.logger.Info("PUT /reservations/{id} - Reservation replaced: reservation_id=%d, status=%s", id, resp.Status)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// UpdateStatus PATCH /api/v1/reservations/{reservationId}
// Принимается только поле status, любые другие поля отклоняются.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r, "PATCH /reservations/{id}")
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSONStrict(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.UpdateStatus(r.Context(), caller, id, &req)
	if err != nil {
		h.respondError(w, "PATCH /reservations/{id}", caller, err)
		return
	}

	h.logger.Info("PATCH /reservations/{id} - Status changed: reservation_id=%d, status=%s, user_id=%d",
		id, resp.Status, caller.UserID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Delete DELETE /api/v1/reservations/{reservationId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, id, ok := h.callerAndID(w, r, "DELETE /reservations/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		h.respondError(w, "DELETE /reservations/{id}", caller, err)
		return
	}

	h.logger.Info("DELETE /reservations/{id} - Reservation deleted: reservation_id=%d, user_id=%d", id, caller.UserID)
	handlers.RespondNoContent(w)
}

func (h *Handler) callerAndID(w http.ResponseWriter, r *http.Request, route string) (access.Caller, int64, bool) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return access.Caller{}, 0, false
	}

	id, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("%s - Invalid reservation ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidReservation)
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
