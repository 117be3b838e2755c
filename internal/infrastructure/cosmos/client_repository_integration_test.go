package cosmos

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

// Needs an existing database and container partitioned on /id,
// e.g. the emulator with TEST_COSMOS_DATABASE and TEST_COSMOS_CONTAINER.
func TestClientRepository_Integration(t *testing.T) {
	connStr := os.Getenv("TEST_COSMOS_CONNECTION_STRING")
	if connStr == "" {
		t.Skip("TEST_COSMOS_CONNECTION_STRING not set")
	}

	container, err := NewContainer(Options{
		ConnectionString: connStr,
		Database:         envOr("TEST_COSMOS_DATABASE", "bankapi"),
		Container:        envOr("TEST_COSMOS_CONTAINER", "clients"),
	})
	require.NoError(t, err)
	repo := NewClientRepository(container)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := domain.NewClient("Mr.", "T.", []domain.Account{{Name: "Savings", Amount: decimal.NewFromInt(50000)}})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, client))
	defer repo.Delete(context.Background(), client.ID)

	found, err := repo.FindByID(ctx, client.ID)
	require.NoError(t, err)

	_, err = found.Withdraw("Savings", decimal.NewFromInt(5000))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, found))

	again, err := repo.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, again.Accounts[0].Amount.Equal(decimal.NewFromInt(45000)))
	assert.Equal(t, int64(2), again.Version)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
