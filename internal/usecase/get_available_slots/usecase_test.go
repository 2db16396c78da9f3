package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	botRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/bot"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
	"github.com/m04kA/SMC-BotAdminService/pkg/ptr"
	"github.com/m04kA/SMC-BotAdminService/pkg/types"
)

type botRepoMock struct {
	bots map[int64]*domain.Bot
	err  error
}

func (m *botRepoMock) GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.Bot, error) {
	if m.err != nil {
		return nil, m.err
	}
	bot, ok := m.bots[id]
	if !ok || !scope.Allows(bot.TenantID) {
		return nil, botRepo.ErrBotNotFound
	}
	return bot, nil
}

type scheduleRepoMock struct {
	windows []*domain.ScheduleWindow
}

func (m *scheduleRepoMock) List(ctx context.Context, scope access.Scope, filter domain.ScheduleFilter) ([]*domain.ScheduleWindow, error) {
	out := make([]*domain.ScheduleWindow, 0)
	for _, w := range m.windows {
		if filter.BotID == nil || w.BotID == *filter.BotID {
			out = append(out, w)
		}
	}
	return out, nil
}

type reservationRepoMock struct {
	reservations []*domain.Reservation
	gotFilter    domain.ReservationFilter
	calls        int
}

func (m *reservationRepoMock) List(ctx context.Context, scope access.Scope, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	m.calls++
	m.gotFilter = filter
	return m.reservations, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

// 2026-03-02 понедельник
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T, reservations *reservationRepoMock) *UseCase {
	bots := &botRepoMock{bots: map[int64]*domain.Bot{
		1: {ID: 1, TenantID: 10, Name: "Barber"},
	}}
	schedule := &scheduleRepoMock{windows: []*domain.ScheduleWindow{
		{ID: 1, BotID: 1, DayOfWeek: 0, StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "12:30")},
		{ID: 2, BotID: 1, DayOfWeek: 0, StartTime: mustTime(t, "14:00"), EndTime: mustTime(t, "15:00")},
		{ID: 3, BotID: 1, DayOfWeek: 1, StartTime: mustTime(t, "10:00"), EndTime: mustTime(t, "18:00")},
	}}

	uc := NewUseCase(bots, schedule, reservations, time.UTC, time.Hour, logger.NewNop())
	uc.timeProvider = fixedTime{now: monday.AddDate(0, 0, -7)}
	return uc
}

func owner() access.Caller {
	return access.Caller{UserID: 5, TenantID: ptr.Ptr(int64(10))}
}

func TestExecute_SlotsFromWindows(t *testing.T) {
	reservations := &reservationRepoMock{reservations: []*domain.Reservation{
		{BotID: 1, StartAt: monday.Add(10*time.Hour + 30*time.Minute), EndAt: monday.Add(11*time.Hour + 30*time.Minute),
			Status: domain.ReservationStatusConfirmed},
		{BotID: 1, StartAt: monday.Add(14 * time.Hour), EndAt: monday.Add(15 * time.Hour),
			Status: domain.ReservationStatusCancelled},
	}}
	uc := newUseCase(t, reservations)

	resp, err := uc.Execute(context.Background(), &Request{Caller: owner(), BotID: 1, Date: "2026-03-02"})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.DurationMinutes)
	require.Len(t, resp.Slots, 4)

	starts := make([]string, len(resp.Slots))
	available := make([]bool, len(resp.Slots))
	for i, s := range resp.Slots {
		starts[i] = s.StartAt.Format("15:04")
		available[i] = s.Available
	}
	// 12:00-13:00 не помещается в окно до 12:30
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "14:00"}, starts)
	// бронь 10:30-11:30 задевает два слота, отменённая не учитывается
	assert.Equal(t, []bool{true, false, false, true}, available)

	require.NotNil(t, reservations.gotFilter.From)
	assert.Equal(t, monday.AddDate(0, 0, -1), *reservations.gotFilter.From)
	assert.Equal(t, monday.AddDate(0, 0, 1), *reservations.gotFilter.To)
}

func TestExecute_AdjacentReservationDoesNotTakeSlot(t *testing.T) {
	reservations := &reservationRepoMock{reservations: []*domain.Reservation{
		{BotID: 1, StartAt: monday.Add(8 * time.Hour), EndAt: monday.Add(9 * time.Hour),
			Status: domain.ReservationStatusPending},
	}}
	uc := newUseCase(t, reservations)

	resp, err := uc.Execute(context.Background(), &Request{Caller: owner(), BotID: 1, Date: "2026-03-02"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.True(t, resp.Slots[0].Available)
}

func TestExecute_PastSlotsSkipped(t *testing.T) {
	reservations := &reservationRepoMock{}
	uc := newUseCase(t, reservations)
	uc.timeProvider = fixedTime{now: monday.Add(10*time.Hour + 15*time.Minute)}

	resp, err := uc.Execute(context.Background(), &Request{Caller: owner(), BotID: 1, Date: "2026-03-02"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, monday.Add(11*time.Hour), resp.Slots[0].StartAt)
}

func TestExecute_NoWindowsSkipsReservations(t *testing.T) {
	reservations := &reservationRepoMock{}
	uc := newUseCase(t, reservations)

	// воскресенье
	resp, err := uc.Execute(context.Background(), &Request{Caller: owner(), BotID: 1, Date: "2026-03-08"})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Zero(t, reservations.calls)
}

func TestExecute_DaylightSavingDay(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	bots := &botRepoMock{bots: map[int64]*domain.Bot{1: {ID: 1, TenantID: 10}}}
	schedule := &scheduleRepoMock{windows: []*domain.ScheduleWindow{
		// 2026-03-29 воскресенье, часы переводятся вперёд в 02:00
		{ID: 1, BotID: 1, DayOfWeek: 6, StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "11:00")},
	}}
	uc := NewUseCase(bots, schedule, &reservationRepoMock{}, madrid, time.Hour, logger.NewNop())
	uc.timeProvider = fixedTime{now: monday}

	resp, err := uc.Execute(context.Background(), &Request{Caller: owner(), BotID: 1, Date: "2026-03-29"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, time.Date(2026, 3, 29, 9, 0, 0, 0, madrid), resp.Slots[0].StartAt)
	assert.Equal(t, "09:00", resp.Slots[0].StartAt.In(madrid).Format("15:04"))
	assert.Equal(t, "10:00", resp.Slots[1].StartAt.In(madrid).Format("15:04"))
	assert.Equal(t, "11:00", resp.Slots[1].EndAt.In(madrid).Format("15:04"))
}

func TestExecute_Errors(t *testing.T) {
	cases := []struct {
		name   string
		caller access.Caller
		req    Request
		want   error
	}{
		{"bad bot id", owner(), Request{BotID: 0, Date: "2026-03-02"}, ErrInvalidBotID},
		{"bad date", owner(), Request{BotID: 1, Date: "02.03.2026"}, domain.ErrSlotInvalidDate},
		{"foreign bot", access.Caller{UserID: 6, TenantID: ptr.Ptr(int64(11))}, Request{BotID: 1, Date: "2026-03-02"}, ErrBotNotFound},
		{"holder without tenant", access.Caller{UserID: 7}, Request{BotID: 1, Date: "2026-03-02"}, ErrBotNotFound},
		{"unknown bot", owner(), Request{BotID: 99, Date: "2026-03-02"}, ErrBotNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := newUseCase(t, &reservationRepoMock{})
			req := tc.req
			req.Caller = tc.caller
			_, err := uc.Execute(context.Background(), &req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestExecute_AdminSeesAnyBot(t *testing.T) {
	uc := newUseCase(t, &reservationRepoMock{})
	resp, err := uc.Execute(context.Background(), &Request{
		Caller: access.Caller{UserID: 1, IsAdmin: true},
		BotID:  1,
		Date:   "2026-03-03",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 8)
}

func TestExecute_RepositoryFailure(t *testing.T) {
	uc := newUseCase(t, &reservationRepoMock{})
	uc.botRepo = &botRepoMock{err: errors.New("connection reset")}

	_, err := uc.Execute(context.Background(), &Request{Caller: owner(), BotID: 1, Date: "2026-03-02"})
	assert.ErrorIs(t, err, ErrInternal)
}
