package create_bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	botRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/bot"
	"github.com/m04kA/SMC-BotAdminService/internal/infra/storage/storagetest"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
	"github.com/m04kA/SMC-BotAdminService/pkg/ptr"
	"github.com/m04kA/SMC-BotAdminService/pkg/txmanager"
)

func TestExecute_ConcurrentQuota(t *testing.T) {
	db := storagetest.NewPostgres(t)
	tenantID := storagetest.SeedTenant(t, db, "sol", 2)

	bots := botRepo.NewRepository(db)
	uc := NewUseCase(tenantRepo.NewRepository(db), bots, txmanager.NewTransactionManager(db), logger.NewNop())
	caller := access.Caller{UserID: 2, TenantID: ptr.Ptr(tenantID)}

	const workers = 6
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), &Request{
				Caller:          caller,
				Name:            fmt.Sprintf("Bot %d", i),
				WhatsAppPhoneID: fmt.Sprintf("34600%04d", i),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrQuotaExceeded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, created)
	assert.Equal(t, workers-2, rejected)

	count, err := bots.CountByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
