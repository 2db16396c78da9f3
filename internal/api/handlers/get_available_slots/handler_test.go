package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/api/handlers"
	"github.com/m04kA/SMC-BotAdminService/internal/api/middleware"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	"github.com/m04kA/SMC-BotAdminService/internal/service/auth"
	getAvailableSlots "github.com/m04kA/SMC-BotAdminService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
	"github.com/m04kA/SMC-BotAdminService/pkg/ptr"
)

type useCaseMock struct {
	got *getAvailableSlots.Request
	err error
}

func (m *useCaseMock) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	m.got = req
	if m.err != nil {
		return nil, m.err
	}
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return &getAvailableSlots.Response{
		Date:            req.Date,
		BotID:           req.BotID,
		DurationMinutes: 60,
		Slots: []getAvailableSlots.Slot{
			{StartAt: start, EndAt: start.Add(time.Hour), Available: true},
			{StartAt: start.Add(time.Hour), EndAt: start.Add(2 * time.Hour), Available: false},
		},
	}, nil
}

var owner = access.Caller{UserID: 5, TenantID: ptr.Ptr(int64(10))}

func newRequest(target, botID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithSession(req.Context(), &auth.Session{Caller: owner}))
	return mux.SetURLVars(req, map[string]string{"botId": botID})
}

func TestHandle_OK(t *testing.T) {
	uc := &useCaseMock{}
	h := NewHandler(uc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("/api/v1/bots/3/available-slots?date=2026-03-02", "3"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), uc.got.BotID)
	assert.Equal(t, "2026-03-02", uc.got.Date)
	assert.Equal(t, owner.UserID, uc.got.Caller.UserID)

	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Slots, 2)
	assert.Equal(t, "09:00", body.Slots[0].StartTime)
	assert.Equal(t, "10:00", body.Slots[0].EndTime)
	assert.True(t, body.Slots[0].Available)
	assert.False(t, body.Slots[1].Available)
}

func TestHandle_Errors(t *testing.T) {
	cases := []struct {
		name    string
		target  string
		botID   string
		ucErr   error
		status  int
		message string
	}{
		{"missing date", "/x", "3", nil, http.StatusBadRequest, msgMissingDate},
		{"bad bot id", "/x?date=2026-03-02", "abc", nil, http.StatusBadRequest, msgInvalidBotID},
		{"bad date", "/x?date=2026/03/02", "3", domain.ErrSlotInvalidDate, http.StatusBadRequest, msgInvalidDate},
		{"not found", "/x?date=2026-03-02", "3", getAvailableSlots.ErrBotNotFound, http.StatusNotFound, msgBotNotFound},
		{"internal", "/x?date=2026-03-02", "3", errors.New("db down"), http.StatusInternalServerError, "внутренняя ошибка сервера"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&useCaseMock{err: tc.ucErr}, logger.NewNop())
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tc.target, tc.botID))

			assert.Equal(t, tc.status, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestHandle_Unauthenticated(t *testing.T) {
	h := NewHandler(&useCaseMock{}, logger.NewNop())
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/x?date=2026-03-02", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
