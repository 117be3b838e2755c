package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

type idempotencyRepository struct {
	db *DB
}

func NewIdempotencyRepository(db *DB) repository.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	query := `
		SELECT idempotency_key, method, path, request_hash, status_code, content_type, body, created_at, expires_at
		FROM idempotency_record
		WHERE idempotency_key = ? AND expires_at > ?
	`
	var record domain.IdempotencyRecord
	err := r.db.GetContext(ctx, &record, query, key, time.Now().UTC())
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find idempotency record: %w", err)
	}
	return &record, nil
}

// Save stores the record, replacing an expired one under the same key
func (r *idempotencyRepository) Save(ctx context.Context, record *domain.IdempotencyRecord) error {
	query := `
		INSERT OR REPLACE INTO idempotency_record
			(idempotency_key, method, path, request_hash, status_code, content_type, body, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.Key,
		record.Method,
		record.Path,
		record.RequestHash,
		record.StatusCode,
		record.ContentType,
		record.Body,
		record.CreatedAt.UTC(),
		record.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save idempotency record: %w", err)
	}
	return nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM idempotency_record WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired idempotency records: %w", err)
	}
	return affected(result)
}
