// Package storagetest поднимает PostgreSQL в контейнере для интеграционных тестов репозиториев.
package storagetest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	"github.com/m04kA/SMC-BotAdminService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-BotAdminService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
)

// NewPostgres запускает контейнер, применяет миграции и возвращает обёрнутое соединение.
// В режиме -short тест пропускается.
func NewPostgres(t *testing.T) *dbmetrics.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("botadmin"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp").WithStartupTimeout(2*time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.Eventually(t, func() bool { return db.PingContext(ctx) == nil }, time.Minute, 500*time.Millisecond)
	require.NoError(t, migrations.Apply(ctx, db, logger.NewNop()))

	return dbmetrics.Wrap(db, nil)
}

// SeedTenant создает пользователя и арендатора с заданным лимитом ботов
func SeedTenant(t *testing.T, db *dbmetrics.DB, username string, maxBots int) int64 {
	t.Helper()
	ctx := context.Background()

	var userID int64
	err := db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, 'x') RETURNING id`, username).Scan(&userID)
	require.NoError(t, err)

	var tenantID int64
	err = db.QueryRowContext(ctx,
		`INSERT INTO tenants (user_id, name, status, max_bots_allowed) VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, fmt.Sprintf("Tenant %s", username), domain.TenantStatusActive, maxBots).Scan(&tenantID)
	require.NoError(t, err)

	return tenantID
}

// SeedBot создает бота арендатора
func SeedBot(t *testing.T, db *dbmetrics.DB, tenantID int64, phoneID string) int64 {
	t.Helper()

	var botID int64
	err := db.QueryRowContext(context.Background(),
		`INSERT INTO bots (tenant_id, name, whatsapp_phone_id) VALUES ($1, $2, $3) RETURNING id`,
		tenantID, "Bot "+phoneID, phoneID).Scan(&botID)
	require.NoError(t, err)

	return botID
}
