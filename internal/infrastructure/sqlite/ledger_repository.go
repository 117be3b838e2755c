package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

type ledgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entry (client_id, account_name, type, amount, balance_after, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		entry.ClientID,
		entry.AccountName,
		entry.Type,
		entry.Amount,
		entry.BalanceAfter,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get ledger entry id: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *ledgerRepository) List(ctx context.Context, filter repository.LedgerFilter) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, client_id, account_name, type, amount, balance_after, created_at
		FROM ledger_entry
		WHERE client_id = ?
	`
	args := []interface{}{filter.ClientID}

	query, args = ApplyFilters(query, args, filter.Filters)
	query = ApplyOrdering(query, filter.Order, "id ASC")
	query, args = ApplyPagination(query, args, filter.ListFilter)

	entries := []*domain.LedgerEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

func (r *ledgerRepository) Count(ctx context.Context, filter repository.LedgerFilter) (int, error) {
	query := `SELECT COUNT(*) FROM ledger_entry WHERE client_id = ?`
	args := []interface{}{filter.ClientID}

	query, args = ApplyFilters(query, args, filter.Filters)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return count, nil
}

func (r *ledgerRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ledger_entry WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete ledger entries: %w", err)
	}
	return affected(result)
}
