package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

type idempotencyRepository struct {
	mu      sync.Mutex
	records map[string]domain.IdempotencyRecord
}

func NewIdempotencyRepository() repository.IdempotencyRepository {
	return &idempotencyRepository{records: make(map[string]domain.IdempotencyRecord)}
}

func (r *idempotencyRepository) Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[key]
	if !ok || record.IsExpired() {
		return nil, nil
	}
	return &record, nil
}

func (r *idempotencyRepository) Save(ctx context.Context, record *domain.IdempotencyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.Key] = *record
	return nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var removed int64
	for key, record := range r.records {
		if !now.Before(record.ExpiresAt) {
			delete(r.records, key)
			removed++
		}
	}
	return removed, nil
}
