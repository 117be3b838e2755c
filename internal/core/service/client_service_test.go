package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpbaz28/Banking-API/internal/api/util"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

func TestClientService_CreateGetDelete(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()

	created, err := env.clients.CreateClient(ctx, "Mr.", "T.", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotNil(t, created.Accounts)
	assert.Empty(t, created.Accounts)

	found, err := env.clients.GetClient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Mr.", found.FirstName)

	require.NoError(t, env.clients.DeleteClient(ctx, created.ID))

	_, err = env.clients.GetClient(ctx, created.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(env.clients.DeleteClient(ctx, created.ID)))
}

func TestClientService_CreateRejectsDuplicateAccounts(t *testing.T) {
	env := newTestEnv(t, 3)

	_, err := env.clients.CreateClient(context.Background(), "Mr.", "T.", []domain.Account{
		{Name: "Savings", Amount: dec("1")},
		{Name: "Savings", Amount: dec("2")},
	})
	assert.Equal(t, domain.KindDuplicateAccount, domain.KindOf(err))
}

func TestClientService_ListAndCount(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()

	empty, err := env.clients.ListClients(ctx, repository.ClientFilter{})
	require.NoError(t, err)
	assert.NotNil(t, empty)

	for _, lname := range []string{"T.", "Bono", "Bono"} {
		_, err := env.clients.CreateClient(ctx, "x", lname, nil)
		require.NoError(t, err)
	}

	filter := repository.ClientFilter{ListFilter: util.ListFilter{
		Filters: []util.QueryFilter{{Field: "lname", Operator: util.OpEq, Value: "Bono"}},
	}}
	clients, err := env.clients.ListClients(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, clients, 2)

	total, err := env.clients.CountClients(ctx, repository.ClientFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestClientService_ReplaceClient(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()
	client := env.createClient(t)

	replaced, err := env.clients.ReplaceClient(ctx, client.ID, "Sonny", "Bono",
		[]domain.Account{{Name: "Checking", Amount: dec("10.50")}}, 0)
	require.NoError(t, err)
	assert.Equal(t, client.ID, replaced.ID)
	assert.Equal(t, int64(2), replaced.Version)
	assert.Equal(t, client.CreatedAt, replaced.CreatedAt)

	stored, err := env.clients.GetClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sonny", stored.FirstName)
	require.Len(t, stored.Accounts, 1)
	assert.True(t, stored.Accounts[0].Amount.Equal(dec("10.50")))

	t.Run("stale expected version", func(t *testing.T) {
		_, err := env.clients.ReplaceClient(ctx, client.ID, "Cher", "Bono", nil, 1)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))

		stored, _ := env.clients.GetClient(ctx, client.ID)
		assert.Equal(t, "Sonny", stored.FirstName)
	})

	t.Run("matching expected version", func(t *testing.T) {
		replaced, err := env.clients.ReplaceClient(ctx, client.ID, "Cher", "Bono", nil, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), replaced.Version)
		assert.NotNil(t, replaced.Accounts)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.clients.ReplaceClient(ctx, "missing", "a", "b", nil, 0)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := env.clients.ReplaceClient(ctx, client.ID, "a", "b",
			[]domain.Account{{Name: "Savings", Amount: dec("-1")}}, 0)
		assert.Equal(t, domain.KindInvalidAmount, domain.KindOf(err))
	})
}

func TestClientService_ReplaceRetriesConflicts(t *testing.T) {
	env := newTestEnv(t, 3)
	client := env.createClient(t)
	env.repo.conflicts = 2

	replaced, err := env.clients.ReplaceClient(context.Background(), client.ID, "a", "b", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", replaced.FirstName)
	assert.Equal(t, 3, env.repo.updates)
}

func TestClientService_StoreFailureIsUnavailable(t *testing.T) {
	env := newTestEnv(t, 3)
	env.repo.findErr = errDiskFull

	_, err := env.clients.GetClient(context.Background(), "abc")
	require.Error(t, err)
	assert.Equal(t, domain.KindStoreUnavailable, domain.KindOf(err))
	assert.ErrorIs(t, err, errDiskFull)
}
