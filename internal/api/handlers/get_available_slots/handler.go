package get_available_slots

import (
	"net/http"

	"github.com/m04kA/SMC-BotAdminService/internal/api/handlers"
	"github.com/m04kA/SMC-BotAdminService/internal/api/middleware"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BotAdminService/internal/usecase/get_available_slots"
)

const (
	msgUnauthorized = "требуется авторизация"
	msgInvalidBotID = "некорректный ID бота"
	msgMissingDate  = "дата обязательна"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBotNotFound  = "бот не найден"
)

var messages = map[error]string{
	getAvailableSlots.ErrBotNotFound: msgBotNotFound,
	domain.ErrSlotInvalidDate:        msgInvalidDate,
}

type Handler struct {
	useCase SlotsUseCase
	logger  Logger
}

func NewHandler(useCase SlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bots/{botId}/available-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	botID, err := handlers.PathID(r, "botId")
	if err != nil {
		h.logger.Warn("GET /bots/{id}/available-slots - Invalid bot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBotID)
		return
	}

	date := handlers.QueryString(r, "date")
	if date == nil {
		h.logger.Warn("GET /bots/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ToUseCaseRequest(caller, botID, *date))
	if err != nil {
		status := handlers.RespondCategorized(w, err, messages)
		if status == http.StatusInternalServerError {
			h.logger.Error("GET /bots/{id}/available-slots - Failed to get slots: bot_id=%d, user_id=%d, error=%v",
				botID, caller.UserID, err)
			return
		}
		h.logger.Warn("GET /bots/{id}/available-slots - Rejected: bot_id=%d, user_id=%d, status=%d, reason=%v",
			botID, caller.UserID, status, err)
		return
	}

	h.logger.Info("GET /bots/{id}/available-slots - Slots retrieved successfully: bot_id=%d, date=%s, slots_count=%d",
		botID, *date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
