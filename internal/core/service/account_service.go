package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
	"github.com/jpbaz28/Banking-API/internal/metrics"
)

// BalanceChange is the outcome of a deposit or withdrawal.
type BalanceChange struct {
	Client  *domain.Client
	Matched int // accounts touched; 0 means nothing was written
}

type AccountService struct {
	clientRepo repository.ClientRepository
	ledgerRepo repository.LedgerRepository
	publisher  EventPublisher
	maxRetries int
	logger     zerolog.Logger
}

func NewAccountService(
	clientRepo repository.ClientRepository,
	ledgerRepo repository.LedgerRepository,
	publisher EventPublisher,
	maxRetries int,
	logger zerolog.Logger,
) *AccountService {
	if publisher == nil {
		publisher = NoopPublisher()
	}
	return &AccountService{
		clientRepo: clientRepo,
		ledgerRepo: ledgerRepo,
		publisher:  publisher,
		maxRetries: maxRetries,
		logger:     logger.With().Str("component", "account_service").Logger(),
	}
}

// AddAccount appends an account to an existing client
func (s *AccountService) AddAccount(ctx context.Context, clientID string, account domain.Account) (*domain.Client, error) {
	var updated *domain.Client

	err := retryOnConflict(ctx, s.logger, s.maxRetries, "add_account", func() error {
		client, err := s.clientRepo.FindByID(ctx, clientID)
		if err != nil {
			return storeError(err, "failed to get client")
		}
		if err := client.AddAccount(account); err != nil {
			return err
		}
		client.Touch()
		if err := s.clientRepo.Update(ctx, client); err != nil {
			return storeError(err, "failed to add account")
		}
		updated = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("client_id", clientID).Str("account", account.Name).Msg("account added")
	return updated, nil
}

// AccountsByBalance returns the client's accounts with lower <= amount <= upper.
// Nil bounds default to zero and unbounded.
func (s *AccountService) AccountsByBalance(ctx context.Context, clientID string, lower, upper *decimal.Decimal) ([]domain.Account, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, storeError(err, "failed to get client")
	}
	return domain.FilterAccountsByBalance(client.Accounts, lower, upper), nil
}

func (s *AccountService) Deposit(ctx context.Context, clientID, accountName string, amount decimal.Decimal) (*BalanceChange, error) {
	return s.mutate(ctx, clientID, accountName, domain.EntryDeposit, amount)
}

// Withdraw debits every account named accountName. If any of them holds less than
// amount the call fails with InsufficientFunds and no balance changes.
func (s *AccountService) Withdraw(ctx context.Context, clientID, accountName string, amount decimal.Decimal) (*BalanceChange, error) {
	return s.mutate(ctx, clientID, accountName, domain.EntryWithdrawal, amount)
}

func (s *AccountService) mutate(
	ctx context.Context,
	clientID string,
	accountName string,
	entryType domain.EntryType,
	amount decimal.Decimal,
) (*BalanceChange, error) {
	operation := string(entryType)

	// Reject bad amounts before touching the store
	if err := domain.ValidateAmount(amount); err != nil {
		metrics.RecordBalanceOperation(operation, domain.KindOf(err).String())
		return nil, err
	}

	var change BalanceChange
	err := retryOnConflict(ctx, s.logger, s.maxRetries, operation, func() error {
		client, err := s.clientRepo.FindByID(ctx, clientID)
		if err != nil {
			return storeError(err, "failed to get client")
		}

		var matched int
		if entryType == domain.EntryWithdrawal {
			matched, err = client.Withdraw(accountName, amount)
		} else {
			matched, err = client.Deposit(accountName, amount)
		}
		if err != nil {
			return err
		}

		change = BalanceChange{Client: client, Matched: matched}
		if matched == 0 {
			return nil
		}

		client.Touch()
		if err := s.clientRepo.Update(ctx, client); err != nil {
			return storeError(err, "failed to save %s", operation)
		}
		return nil
	})
	if err != nil {
		metrics.RecordBalanceOperation(operation, domain.KindOf(err).String())
		if domain.IsKind(err, domain.KindStoreUnavailable) {
			s.logger.Error().Err(err).Str("client_id", clientID).Str("operation", operation).Msg("balance update failed")
		}
		return nil, err
	}

	if change.Matched == 0 {
		metrics.RecordBalanceOperation(operation, "no_match")
		s.logger.Debug().Str("client_id", clientID).Str("account", accountName).Msg("no account matched, nothing written")
		return &change, nil
	}

	metrics.RecordBalanceOperation(operation, "ok")
	s.record(ctx, change.Client, accountName, entryType, amount, change.Matched)
	return &change, nil
}

// record appends ledger entries and publishes the event for a committed change.
// The balance change has already happened, so failures here are logged only.
func (s *AccountService) record(ctx context.Context, client *domain.Client, accountName string, entryType domain.EntryType, amount decimal.Decimal, matched int) {
	if s.ledgerRepo != nil {
		for _, entry := range domain.NewLedgerEntries(client, accountName, entryType, amount) {
			if err := s.ledgerRepo.Create(ctx, entry); err != nil {
				s.logger.Error().Err(err).
					Str("client_id", client.ID).
					Str("account", accountName).
					Msg("failed to append ledger entry")
			}
		}
	}

	event := domain.BalanceEvent{
		ClientID:    client.ID,
		AccountName: accountName,
		Type:        entryType,
		Amount:      amount,
		Matched:     matched,
		Version:     client.Version,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.publisher.PublishBalanceEvent(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("client_id", client.ID).Str("routing_key", event.RoutingKey()).Msg("failed to publish balance event")
	}
}

// ListLedger returns the ledger entries of one client
func (s *AccountService) ListLedger(ctx context.Context, filter repository.LedgerFilter) ([]*domain.LedgerEntry, error) {
	if _, err := s.clientRepo.FindByID(ctx, filter.ClientID); err != nil {
		return nil, storeError(err, "failed to get client")
	}

	entries, err := s.ledgerRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "failed to list ledger entries")
	}
	if entries == nil {
		entries = []*domain.LedgerEntry{}
	}
	return entries, nil
}

func (s *AccountService) CountLedger(ctx context.Context, filter repository.LedgerFilter) (int, error) {
	count, err := s.ledgerRepo.Count(ctx, filter)
	if err != nil {
		return 0, storeError(err, "failed to count ledger entries")
	}
	return count, nil
}
