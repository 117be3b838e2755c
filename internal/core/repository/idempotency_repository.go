package repository

import (
	"context"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

type IdempotencyRepository interface {
	// Get returns nil, nil when no live record exists for key
	Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
	Save(ctx context.Context, record *domain.IdempotencyRecord) error
	DeleteExpired(ctx context.Context) (int64, error)
}
