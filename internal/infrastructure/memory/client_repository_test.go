package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

func TestClientRepository_Lifecycle(t *testing.T) {
	repo := NewClientRepository()
	ctx := context.Background()

	client, err := domain.NewClient("Mr.", "T.", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, client))

	found, err := repo.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, client.ID, found.ID)

	// Returned records are detached
	found.FirstName = "changed"
	again, _ := repo.FindByID(ctx, client.ID)
	assert.Equal(t, "Mr.", again.FirstName)

	require.NoError(t, again.AddAccount(domain.Account{Name: "Savings", Amount: decimal.NewFromInt(50000)}))
	require.NoError(t, repo.Update(ctx, again))
	assert.Equal(t, int64(2), again.Version)

	err = repo.Update(ctx, found)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	require.NoError(t, repo.Delete(ctx, client.ID))
	_, err = repo.FindByID(ctx, client.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(repo.Delete(ctx, client.ID)))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(repo.Update(ctx, again)))
}

func TestClientRepository_ConcurrentUpdatesOneWins(t *testing.T) {
	repo := NewClientRepository()
	ctx := context.Background()

	client, err := domain.NewClient("Mr.", "T.", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, client))

	const writers = 8
	var wg sync.WaitGroup
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		stale := client.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Update(ctx, stale)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	}
	assert.Equal(t, 1, succeeded)
}

func TestClientRepository_ListCount(t *testing.T) {
	repo := NewClientRepository()
	ctx := context.Background()

	for i, name := range []string{"T.", "Bono", "Bono"} {
		c, err := domain.NewClient("x", name, nil)
		require.NoError(t, err)
		c.CreatedAt = time.Date(2025, 1, 1, i, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, c))
	}

	filter := repository.ClientFilter{}
	filter.PerPage = 2
	filter.Page = 1
	page, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, "T.", page[0].LastName)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestClientRepository_CanceledContext(t *testing.T) {
	repo := NewClientRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindByID(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
