package repository

import (
	"context"
	"time"

	"github.com/jpbaz28/Banking-API/internal/api/util"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

// LedgerFilter scopes a ledger listing to one client
type LedgerFilter struct {
	util.ListFilter
	ClientID string
}

// LedgerFields are the fields accepted by the ledger list endpoint
var LedgerFields = util.FieldSet{
	Query: []string{"type", "account_name", "created_at"},
	Order: []string{"id", "account_name", "created_at"},
}

type LedgerRepository interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	List(ctx context.Context, filter LedgerFilter) ([]*domain.LedgerEntry, error)
	Count(ctx context.Context, filter LedgerFilter) (int, error)
	// DeleteOlderThan removes entries created before cutoff and returns how many were removed
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
