package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/memory"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/sqlite"
)

func TestCleanupService_Run(t *testing.T) {
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	require.NoError(t, sqlite.NewUserRepository(db).Create(ctx, domain.NewUser("admin", "hash")))
	codes := sqlite.NewAuthCodeRepository(db)
	require.NoError(t, codes.Create(ctx, domain.NewAuthCode("admin", nil, -time.Minute)))
	require.NoError(t, codes.Create(ctx, domain.NewAuthCode("admin", nil, time.Minute)))

	idempotency := memory.NewIdempotencyRepository()
	now := time.Now().UTC()
	require.NoError(t, idempotency.Save(ctx, &domain.IdempotencyRecord{Key: "old", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, idempotency.Save(ctx, &domain.IdempotencyRecord{Key: "new", ExpiresAt: now.Add(time.Hour)}))

	ledger := memory.NewLedgerRepository()
	require.NoError(t, ledger.Create(ctx, &domain.LedgerEntry{ClientID: "c1", CreatedAt: now.AddDate(0, 0, -40)}))
	require.NoError(t, ledger.Create(ctx, &domain.LedgerEntry{ClientID: "c1", CreatedAt: now}))

	svc := NewCleanupService(codes, idempotency, ledger, 30, zerolog.Nop())
	result, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &CleanupResult{AuthCodes: 1, IdempotencyRecords: 1, LedgerEntries: 1}, result)

	// nothing left to remove
	result, err = svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &CleanupResult{}, result)
}

func TestCleanupService_ZeroRetentionKeepsLedger(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedgerRepository()
	require.NoError(t, ledger.Create(ctx, &domain.LedgerEntry{ClientID: "c1", CreatedAt: time.Now().AddDate(-5, 0, 0)}))

	svc := NewCleanupService(nil, nil, ledger, 0, zerolog.Nop())
	result, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.LedgerEntries)
}

type failingAuthCodes struct{}

func (failingAuthCodes) Create(context.Context, *domain.AuthCode) error { return nil }
func (failingAuthCodes) FindByCode(context.Context, string) (*domain.AuthCode, error) {
	return nil, domain.NewError(domain.KindNotFound, "no code")
}
func (failingAuthCodes) Delete(context.Context, string) error { return nil }
func (failingAuthCodes) DeleteExpired(context.Context) (int64, error) {
	return 0, errors.New("database is locked")
}

func TestCleanupService_ContinuesAfterFailure(t *testing.T) {
	ctx := context.Background()
	idempotency := memory.NewIdempotencyRepository()
	require.NoError(t, idempotency.Save(ctx, &domain.IdempotencyRecord{Key: "old", ExpiresAt: time.Now().Add(-time.Hour)}))

	svc := NewCleanupService(failingAuthCodes{}, idempotency, nil, 0, zerolog.Nop())
	result, err := svc.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, domain.KindStoreUnavailable, domain.KindOf(err))
	assert.Equal(t, int64(1), result.IdempotencyRecords)
}

func TestCleanupService_Start(t *testing.T) {
	svc := NewCleanupService(nil, nil, nil, 0, zerolog.Nop())

	assert.Error(t, svc.Start("not a schedule"))

	require.NoError(t, svc.Start("@every 1h"))
	assert.Error(t, svc.Start("@every 1h"))
	svc.Stop()
	svc.Stop()
}
