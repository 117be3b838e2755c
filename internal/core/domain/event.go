package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceEvent is published after a balance change has been committed.
type BalanceEvent struct {
	ClientID    string          `json:"client_id"`
	AccountName string          `json:"account_name"`
	Type        EntryType       `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Matched     int             `json:"matched"`
	Version     int64           `json:"version"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// RoutingKey is the topic routing key, e.g. "balance.deposit".
func (e BalanceEvent) RoutingKey() string {
	return "balance." + string(e.Type)
}
