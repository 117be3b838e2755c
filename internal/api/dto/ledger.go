package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerEntryResponse struct {
	ID           int64           `json:"id"`
	AccountName  string          `json:"account_name"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}

type LedgerListResponse struct {
	Items      []LedgerEntryResponse `json:"items"`
	Pagination PaginationInfo        `json:"pagination"`
}
