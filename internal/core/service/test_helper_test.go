package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/memory"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/sqlite"
)

func init() {
	ConflictBackoff = time.Millisecond
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// flakyRepo injects failures in front of a real store.
type flakyRepo struct {
	repository.ClientRepository

	mu        sync.Mutex
	conflicts int   // Update calls left that fail with Conflict
	findErr   error // returned by every FindByID when set
	updates   int
}

func (f *flakyRepo) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.ClientRepository.FindByID(ctx, id)
}

func (f *flakyRepo) Update(ctx context.Context, client *domain.Client) error {
	f.mu.Lock()
	f.updates++
	if f.conflicts > 0 {
		f.conflicts--
		f.mu.Unlock()
		return domain.ErrVersionConflict(client.ID)
	}
	f.mu.Unlock()
	return f.ClientRepository.Update(ctx, client)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.BalanceEvent
	err    error
}

func (p *recordingPublisher) PublishBalanceEvent(_ context.Context, event domain.BalanceEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type testEnv struct {
	clients   *ClientService
	accounts  *AccountService
	repo      *flakyRepo
	ledger    repository.LedgerRepository
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T, maxRetries int) *testEnv {
	t.Helper()
	return newTestEnvWith(t, memory.NewClientRepository(), memory.NewLedgerRepository(), maxRetries)
}

// newSQLiteTestEnv runs the services against a file-backed database, so the
// connection pool holds several connections.
func newSQLiteTestEnv(t *testing.T, maxRetries int) *testEnv {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return newTestEnvWith(t, sqlite.NewClientRepository(db), sqlite.NewLedgerRepository(db), maxRetries)
}

func newTestEnvWith(t *testing.T, store repository.ClientRepository, ledger repository.LedgerRepository, maxRetries int) *testEnv {
	t.Helper()
	repo := &flakyRepo{ClientRepository: store}
	publisher := &recordingPublisher{}
	logger := zerolog.Nop()

	return &testEnv{
		clients:   NewClientService(repo, maxRetries, logger),
		accounts:  NewAccountService(repo, ledger, publisher, maxRetries, logger),
		repo:      repo,
		ledger:    ledger,
		publisher: publisher,
	}
}

func (e *testEnv) createClient(t *testing.T, accounts ...domain.Account) *domain.Client {
	t.Helper()
	client, err := e.clients.CreateClient(context.Background(), "Mr.", "T.", accounts)
	require.NoError(t, err)
	return client
}

var errDiskFull = errors.New("disk full")
