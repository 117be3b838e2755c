package memory

import (
	"cmp"
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jpbaz28/Banking-API/internal/api/util"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

type ledgerRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries []*domain.LedgerEntry
}

func NewLedgerRepository() repository.LedgerRepository {
	return &ledgerRepository{}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	stored := *entry
	r.entries = append(r.entries, &stored)
	return nil
}

func ledgerField(e *domain.LedgerEntry, field string) string {
	switch field {
	case "id":
		return strconv.FormatInt(e.ID, 10)
	case "type":
		return string(e.Type)
	case "account_name":
		return e.AccountName
	case "created_at":
		return util.FormatDateTime(e.CreatedAt)
	default:
		return ""
	}
}

func (r *ledgerRepository) matching(filter repository.LedgerFilter) []*domain.LedgerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []*domain.LedgerEntry{}
outer:
	for _, e := range r.entries {
		if e.ClientID != filter.ClientID {
			continue
		}
		for _, f := range filter.Filters {
			if !f.Matches(ledgerField(e, f.Field)) {
				continue outer
			}
		}
		copied := *e
		matched = append(matched, &copied)
	}
	return matched
}

func (r *ledgerRepository) List(ctx context.Context, filter repository.LedgerFilter) ([]*domain.LedgerEntry, error) {
	matched := r.matching(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		for _, o := range filter.Order {
			var c int
			if o.Field == "id" {
				c = cmp.Compare(a.ID, b.ID)
			} else {
				c = strings.Compare(ledgerField(a, o.Field), ledgerField(b, o.Field))
			}
			if c != 0 {
				if o.Direction == util.OrderDesc {
					return c > 0
				}
				return c < 0
			}
		}
		return a.ID < b.ID
	})
	return util.Paginate(matched, filter.ListFilter), nil
}

func (r *ledgerRepository) Count(ctx context.Context, filter repository.LedgerFilter) (int, error) {
	return len(r.matching(filter)), nil
}

func (r *ledgerRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	var removed int64
	for _, e := range r.entries {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}
