package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	botRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/bot"
	catalogRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-BotAdminService/internal/service/reservations/models"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
	"github.com/m04kA/SMC-BotAdminService/pkg/ptr"
)

type reservationRepoMock struct {
	items      map[int64]*domain.Reservation
	lastFilter domain.ReservationFilter
	updateErr  error
}

func (m *reservationRepoMock) GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.Reservation, error) {
	res, ok := m.items[id]
	if !ok || !scope.Allows(res.TenantID) {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (m *reservationRepoMock) List(ctx context.Context, scope access.Scope, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	m.lastFilter = filter
	result := make([]*domain.Reservation, 0)
	for _, res := range m.items {
		if scope.Allows(res.TenantID) {
			result = append(result, res)
		}
	}
	return result, nil
}

func (m *reservationRepoMock) Update(ctx context.Context, res *domain.Reservation) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.items[res.ID] = res
	return nil
}

func (m *reservationRepoMock) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	res, ok := m.items[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	res.Status = status
	return nil
}

func (m *reservationRepoMock) Delete(ctx context.Context, id int64) error {
	delete(m.items, id)
	return nil
}

type botRepoMock struct{}

func (botRepoMock) GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.Bot, error) {
	switch id {
	case 7:
		return &domain.Bot{ID: 7, TenantID: 1, Name: "Turnos"}, nil
	case 8:
		return &domain.Bot{ID: 8, TenantID: 2, Name: "Otro"}, nil
	}
	return nil, botRepo.ErrBotNotFound
}

type serviceRepoMock struct{}

func (serviceRepoMock) GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.Service, error) {
	if id == 3 {
		return &domain.Service{ID: 3, BotID: 7, Name: "Corte"}, nil
	}
	return nil, catalogRepo.ErrServiceNotFound
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

var (
	now    = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	admin  = access.Caller{UserID: 1, IsAdmin: true}
	ownerA = access.Caller{UserID: 2, TenantID: ptr.Ptr(int64(1))}
	ownerB = access.Caller{UserID: 3, TenantID: ptr.Ptr(int64(2))}
)

func newFixture(enforce bool) (*Service, *reservationRepoMock) {
	repo := &reservationRepoMock{items: map[int64]*domain.Reservation{
		// начинается через 30 часов
		1: {ID: 1, BotID: 7, TenantID: 1, StartAt: now.Add(30 * time.Hour), EndAt: now.Add(31 * time.Hour), Status: domain.ReservationStatusConfirmed},
		// начинается через 10 часов
		2: {ID: 2, BotID: 7, TenantID: 1, StartAt: now.Add(10 * time.Hour), EndAt: now.Add(11 * time.Hour), Status: domain.ReservationStatusPending},
		3: {ID: 3, BotID: 8, TenantID: 2, StartAt: now.Add(50 * time.Hour), EndAt: now.Add(51 * time.Hour), Status: domain.ReservationStatusConfirmed},
	}}

	madrid, _ := time.LoadLocation("Europe/Madrid")
	svc := NewService(repo, botRepoMock{}, serviceRepoMock{}, Options{
		Location:                  madrid,
		DefaultDuration:           time.Hour,
		EnforceCancellationWindow: enforce,
	}, logger.NewNop())
	svc.timeProvider = fixedTime{now: now}
	return svc, repo
}

func TestList_CancellableAndScope(t *testing.T) {
	svc, _ := newFixture(true)

	resp, err := svc.List(context.Background(), ownerA, &models.ListReservationsRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)

	byID := map[int64]models.ReservationResponse{}
	for _, r := range resp.Reservations {
		byID[r.ID] = r
	}
	assert.True(t, byID[1].Cancellable)
	assert.False(t, byID[2].Cancellable)

	all, err := svc.List(context.Background(), admin, &models.ListReservationsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
}

func TestList_DateFilterUsesBookingTimezone(t *testing.T) {
	svc, repo := newFixture(true)

	_, err := svc.List(context.Background(), ownerA, &models.ListReservationsRequest{
		Date:   ptr.Ptr("2025-06-02"),
		Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter.From)
	require.NotNil(t, repo.lastFilter.To)
	assert.Equal(t, time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC), repo.lastFilter.From.UTC())
	assert.Equal(t, 24*time.Hour, repo.lastFilter.To.Sub(*repo.lastFilter.From))
	assert.Equal(t, domain.ReservationStatusConfirmed, *repo.lastFilter.Status)

	_, err = svc.List(context.Background(), ownerA, &models.ListReservationsRequest{Date: ptr.Ptr("02.06.2025")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateStatus_CancellationWindow(t *testing.T) {
	t.Run("outside window", func(t *testing.T) {
		svc, repo := newFixture(true)
		resp, err := svc.UpdateStatus(context.Background(), ownerA, 1, &models.UpdateStatusRequest{Status: "cancelled"})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		assert.Equal(t, domain.ReservationStatusCancelled, repo.items[1].Status)
	})

	t.Run("inside window for owner", func(t *testing.T) {
		svc, repo := newFixture(true)
		_, err := svc.UpdateStatus(context.Background(), ownerA, 2, &models.UpdateStatusRequest{Status: "cancelled"})
		assert.ErrorIs(t, err, ErrCancellationWindow)
		assert.Equal(t, domain.ReservationStatusPending, repo.items[2].Status)
	})

	t.Run("inside window for admin", func(t *testing.T) {
		svc, _ := newFixture(true)
		_, err := svc.UpdateStatus(context.Background(), admin, 2, &models.UpdateStatusRequest{Status: "cancelled"})
		assert.NoError(t, err)
	})

	t.Run("policy disabled", func(t *testing.T) {
		svc, _ := newFixture(false)
		_, err := svc.UpdateStatus(context.Background(), ownerA, 2, &models.UpdateStatusRequest{Status: "cancelled"})
		assert.NoError(t, err)
	})

	t.Run("confirming inside window", func(t *testing.T) {
		svc, _ := newFixture(true)
		_, err := svc.UpdateStatus(context.Background(), ownerA, 2, &models.UpdateStatusRequest{Status: "confirmed"})
		assert.NoError(t, err)
	})
}

func TestReplace_CancellationWindow(t *testing.T) {
	start := now.Add(10 * time.Hour)
	cancel := func() *models.ReservationRequest {
		return &models.ReservationRequest{
			BotID: 7, Start: &start, Status: "cancelled",
			CustomerName: "Luis", CustomerPhone: "+34611111111",
		}
	}

	t.Run("inside window for owner", func(t *testing.T) {
		svc, repo := newFixture(true)
		_, err := svc.Replace(context.Background(), ownerA, 2, cancel())
		assert.ErrorIs(t, err, ErrCancellationWindow)
		assert.Equal(t, domain.ReservationStatusPending, repo.items[2].Status)
	})

	t.Run("moving out of the window does not help", func(t *testing.T) {
		svc, repo := newFixture(true)
		req := cancel()
		later := now.Add(96 * time.Hour)
		req.Start = &later
		_, err := svc.Replace(context.Background(), ownerA, 2, req)
		assert.ErrorIs(t, err, ErrCancellationWindow)
		assert.Equal(t, domain.ReservationStatusPending, repo.items[2].Status)
	})

	t.Run("inside window for admin", func(t *testing.T) {
		svc, repo := newFixture(true)
		_, err := svc.Replace(context.Background(), admin, 2, cancel())
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusCancelled, repo.items[2].Status)
	})

	t.Run("outside window for owner", func(t *testing.T) {
		svc, repo := newFixture(true)
		req := cancel()
		later := now.Add(30 * time.Hour)
		req.Start = &later
		_, err := svc.Replace(context.Background(), ownerA, 1, req)
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusCancelled, repo.items[1].Status)
	})
}

func TestUpdateStatus_Errors(t *testing.T) {
	svc, _ := newFixture(true)

	_, err := svc.UpdateStatus(context.Background(), ownerA, 1, &models.UpdateStatusRequest{Status: "done"})
	assert.ErrorIs(t, err, domain.ErrInvalidReservationStatus)

	_, err = svc.UpdateStatus(context.Background(), ownerB, 1, &models.UpdateStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestReplace(t *testing.T) {
	start := now.Add(72 * time.Hour)

	t.Run("success", func(t *testing.T) {
		svc, repo := newFixture(true)
		resp, err := svc.Replace(context.Background(), ownerA, 1, &models.ReservationRequest{
			BotID: 7, ServiceID: ptr.Ptr(int64(3)), Start: &start,
			CustomerName: "Luis", CustomerPhone: "+34611111111",
		})
		require.NoError(t, err)
		assert.Equal(t, start.Add(time.Hour), resp.End)
		assert.Equal(t, "Corte", *resp.ServiceName)
		assert.Equal(t, "Luis", repo.items[1].CustomerName)
	})

	t.Run("foreign bot", func(t *testing.T) {
		svc, _ := newFixture(true)
		_, err := svc.Replace(context.Background(), ownerA, 1, &models.ReservationRequest{
			BotID: 8, Start: &start, CustomerName: "Luis", CustomerPhone: "1",
		})
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("slot conflict", func(t *testing.T) {
		svc, repo := newFixture(true)
		repo.updateErr = reservationRepo.ErrSlotTaken
		_, err := svc.Replace(context.Background(), ownerA, 1, &models.ReservationRequest{
			BotID: 7, Start: &start, CustomerName: "Luis", CustomerPhone: "1",
		})
		assert.ErrorIs(t, err, ErrSlotTaken)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("end before start", func(t *testing.T) {
		svc, _ := newFixture(true)
		end := start.Add(-time.Hour)
		_, err := svc.Replace(context.Background(), ownerA, 1, &models.ReservationRequest{
			BotID: 7, Start: &start, End: &end, CustomerName: "Luis", CustomerPhone: "1",
		})
		assert.ErrorIs(t, err, domain.ErrSlotInvalidRange)
	})
}

func TestDelete_Scoped(t *testing.T) {
	svc, repo := newFixture(true)

	assert.ErrorIs(t, svc.Delete(context.Background(), ownerB, 1), ErrReservationNotFound)
	require.NoError(t, svc.Delete(context.Background(), ownerA, 1))
	assert.NotContains(t, repo.items, int64(1))
}
