package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	"github.com/m04kA/SMC-BotAdminService/internal/infra/storage/storagetest"
)

func TestRepository_ListIntegration(t *testing.T) {
	db := storagetest.NewPostgres(t)
	repo := NewRepository(db)
	ctx := context.Background()

	solID := storagetest.SeedTenant(t, db, "sol", 3)
	lunaID := storagetest.SeedTenant(t, db, "luna", 3)
	storagetest.SeedTenant(t, db, "mar", 1)
	storagetest.SeedBot(t, db, solID, "1001")
	storagetest.SeedBot(t, db, solID, "1002")

	_, err := db.ExecContext(ctx, `UPDATE tenants SET status = 'suspended' WHERE id = $1`, lunaID)
	require.NoError(t, err)

	month := domain.NewSnapshotPeriod(time.Now(), time.UTC).CurrentMonth()

	t.Run("search by username", func(t *testing.T) {
		list, total, err := repo.List(ctx, domain.TenantFilter{Search: "SOL", Ordering: "name", Month: month})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, solID, list[0].ID)
		assert.Equal(t, 2, list[0].BotCount)
	})

	t.Run("status filter", func(t *testing.T) {
		status := domain.TenantStatusSuspended
		list, total, err := repo.List(ctx, domain.TenantFilter{Status: &status, Month: month})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, lunaID, list[0].ID)
	})

	t.Run("page keeps the full count", func(t *testing.T) {
		list, total, err := repo.List(ctx, domain.TenantFilter{Ordering: "name", Limit: 2, Offset: 2, Month: month})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, list, 1)
		assert.Equal(t, solID, list[0].ID)
	})

	t.Run("one profile per user", func(t *testing.T) {
		var userID int64
		require.NoError(t, db.QueryRowContext(ctx, `SELECT user_id FROM tenants WHERE id = $1`, solID).Scan(&userID))

		_, err := repo.Create(ctx, &domain.Tenant{UserID: userID, Name: "Twice", Status: domain.TenantStatusActive, MaxBotsAllowed: 3})
		assert.ErrorIs(t, err, ErrTenantExists)
	})

	t.Run("delete cascades to bots", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, solID))

		var bots int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bots`).Scan(&bots))
		assert.Zero(t, bots)

		_, err := repo.GetByID(ctx, solID, month)
		assert.ErrorIs(t, err, ErrTenantNotFound)
	})
}
