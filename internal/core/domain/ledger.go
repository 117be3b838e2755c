package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryDeposit    EntryType = "deposit"
	EntryWithdrawal EntryType = "withdrawal"
)

// LedgerEntry records one committed balance change on one account.
type LedgerEntry struct {
	ID           int64           `db:"id"`
	ClientID     string          `db:"client_id"`
	AccountName  string          `db:"account_name"`
	Type         EntryType       `db:"type"`
	Amount       decimal.Decimal `db:"amount"`
	BalanceAfter decimal.Decimal `db:"balance_after"`
	CreatedAt    time.Time       `db:"created_at"`
}

// NewLedgerEntries builds one entry per account named name, using the balances in after.
func NewLedgerEntries(after *Client, name string, entryType EntryType, amount decimal.Decimal) []*LedgerEntry {
	now := time.Now().UTC()
	var entries []*LedgerEntry
	for _, balance := range after.BalancesOf(name) {
		entries = append(entries, &LedgerEntry{
			ClientID:     after.ID,
			AccountName:  name,
			Type:         entryType,
			Amount:       amount,
			BalanceAfter: balance,
			CreatedAt:    now,
		})
	}
	return entries
}
