package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpbaz28/Banking-API/internal/api/util"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

func balance(t *testing.T, env *testEnv, clientID, name string) decimal.Decimal {
	t.Helper()
	client, err := env.clients.GetClient(context.Background(), clientID)
	require.NoError(t, err)
	balances := client.BalancesOf(name)
	require.Len(t, balances, 1)
	return balances[0]
}

func TestAccountService_Walkthrough(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()
	client := env.createClient(t)

	// add Savings 50000
	updated, err := env.accounts.AddAccount(ctx, client.ID, domain.Account{Name: "Savings", Amount: dec("50000")})
	require.NoError(t, err)
	require.Len(t, updated.Accounts, 1)
	assert.True(t, balance(t, env, client.ID, "Savings").Equal(dec("50000")))

	// deposit 5000
	change, err := env.accounts.Deposit(ctx, client.ID, "Savings", dec("5000"))
	require.NoError(t, err)
	assert.Equal(t, 1, change.Matched)
	assert.True(t, balance(t, env, client.ID, "Savings").Equal(dec("55000")))

	// withdraw 5000
	_, err = env.accounts.Withdraw(ctx, client.ID, "Savings", dec("5000"))
	require.NoError(t, err)
	assert.True(t, balance(t, env, client.ID, "Savings").Equal(dec("50000")))

	// overdraw
	_, err = env.accounts.Withdraw(ctx, client.ID, "Savings", dec("999999"))
	assert.Equal(t, domain.KindInsufficientFunds, domain.KindOf(err))
	assert.True(t, balance(t, env, client.ID, "Savings").Equal(dec("50000")))

	// negative deposit
	_, err = env.accounts.Deposit(ctx, client.ID, "Savings", dec("-10"))
	assert.Equal(t, domain.KindInvalidAmount, domain.KindOf(err))
	assert.True(t, balance(t, env, client.ID, "Savings").Equal(dec("50000")))

	// only the two committed changes reached the ledger and the broker
	entries, err := env.accounts.ListLedger(ctx, repository.LedgerFilter{ClientID: client.ID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.EntryDeposit, entries[0].Type)
	assert.True(t, entries[0].BalanceAfter.Equal(dec("55000")))
	assert.Equal(t, domain.EntryWithdrawal, entries[1].Type)
	assert.True(t, entries[1].BalanceAfter.Equal(dec("50000")))

	require.Len(t, env.publisher.events, 2)
	assert.Equal(t, "balance.deposit", env.publisher.events[0].RoutingKey())
	assert.Equal(t, int64(3), env.publisher.events[0].Version)

	count, err := env.accounts.CountLedger(ctx, repository.LedgerFilter{
		ClientID:   client.ID,
		ListFilter: util.ListFilter{Filters: []util.QueryFilter{{Field: "type", Operator: util.OpEq, Value: "withdrawal"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAccountService_AddAccountDuplicate(t *testing.T) {
	env := newTestEnv(t, 3)
	client := env.createClient(t, domain.Account{Name: "Savings", Amount: dec("1")})

	_, err := env.accounts.AddAccount(context.Background(), client.ID, domain.Account{Name: "Savings", Amount: dec("2")})
	assert.Equal(t, domain.KindDuplicateAccount, domain.KindOf(err))

	_, err = env.accounts.AddAccount(context.Background(), "missing", domain.Account{Name: "Savings"})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestAccountService_NoMatchIsNoop(t *testing.T) {
	env := newTestEnv(t, 3)
	ctx := context.Background()
	client := env.createClient(t, domain.Account{Name: "Savings", Amount: dec("100")})

	change, err := env.accounts.Deposit(ctx, client.ID, "Checking", dec("5"))
	require.NoError(t, err)
	assert.Equal(t, 0, change.Matched)
	assert.Equal(t, int64(1), change.Client.Version)

	assert.Equal(t, 0, env.repo.updates)
	assert.Empty(t, env.publisher.events)
	entries, err := env.accounts.ListLedger(ctx, repository.LedgerFilter{ClientID: client.ID})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAccountService_AccountsByBalance(t *testing.T) {
	env := newTestEnv(t, 3)
	client := env.createClient(t,
		domain.Account{Name: "Checking", Amount: dec("100")},
		domain.Account{Name: "Savings", Amount: dec("50000")},
		domain.Account{Name: "Travel", Amount: dec("2500")},
	)

	lower, upper := dec("100"), dec("2500")
	accounts, err := env.accounts.AccountsByBalance(context.Background(), client.ID, &lower, &upper)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Checking", accounts[0].Name)
	assert.Equal(t, "Travel", accounts[1].Name)

	none := dec("1000000")
	accounts, err = env.accounts.AccountsByBalance(context.Background(), client.ID, &none, nil)
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestAccountService_RetriesConflicts(t *testing.T) {
	env := newTestEnv(t, 3)
	client := env.createClient(t, domain.Account{Name: "Savings", Amount: dec("10")})
	env.repo.conflicts = 3

	_, err := env.accounts.Deposit(context.Background(), client.ID, "Savings", dec("1"))
	require.NoError(t, err)
	assert.Equal(t, 4, env.repo.updates)
	assert.True(t, balance(t, env, client.ID, "Savings").Equal(dec("11")))
}

func TestAccountService_GivesUpAfterMaxRetries(t *testing.T) {
	env := newTestEnv(t, 2)
	client := env.createClient(t, domain.Account{Name: "Savings", Amount: dec("10")})
	env.repo.conflicts = 10

	_, err := env.accounts.Withdraw(context.Background(), client.ID, "Savings", dec("1"))
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, 3, env.repo.updates)
	assert.True(t, balance(t, env, client.ID, "Savings").Equal(dec("10")))
	assert.Empty(t, env.publisher.events)
}

func TestAccountService_ConcurrentDepositsAreNotLost(t *testing.T) {
	stores := map[string]func(*testing.T, int) *testEnv{
		"memory": newTestEnv,
		"sqlite": newSQLiteTestEnv,
	}
	for name, newEnv := range stores {
		t.Run(name, func(t *testing.T) {
			env := newEnv(t, 100)
			client := env.createClient(t, domain.Account{Name: "Savings", Amount: dec("0")})

			const writers = 30
			var wg sync.WaitGroup
			errs := make(chan error, writers)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := env.accounts.Deposit(context.Background(), client.ID, "Savings", dec("1.25")); err != nil {
						errs <- err
					}
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				t.Errorf("deposit failed: %v", err)
			}
			assert.True(t, balance(t, env, client.ID, "Savings").Equal(dec("37.5")))

			stored, err := env.clients.GetClient(context.Background(), client.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1+writers), stored.Version)

			entries, err := env.ledger.Count(context.Background(), repository.LedgerFilter{ClientID: client.ID})
			require.NoError(t, err)
			assert.Equal(t, writers, entries)
		})
	}
}

func TestAccountService_PublishFailureIsNotSurfaced(t *testing.T) {
	env := newTestEnv(t, 3)
	client := env.createClient(t, domain.Account{Name: "Savings", Amount: dec("10")})
	env.publisher.err = errors.New("broker down")

	change, err := env.accounts.Deposit(context.Background(), client.ID, "Savings", dec("5"))
	require.NoError(t, err)
	assert.Equal(t, 1, change.Matched)
	assert.True(t, balance(t, env, client.ID, "Savings").Equal(dec("15")))
}

func TestAccountService_ListLedgerUnknownClient(t *testing.T) {
	env := newTestEnv(t, 3)

	_, err := env.accounts.ListLedger(context.Background(), repository.LedgerFilter{ClientID: "missing"})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
