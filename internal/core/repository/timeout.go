package repository

import (
	"context"
	"time"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

type timeoutClientRepository struct {
	next    ClientRepository
	timeout time.Duration
}

// WithTimeout bounds every call to next by timeout. A non-positive timeout returns next unchanged.
func WithTimeout(next ClientRepository, timeout time.Duration) ClientRepository {
	if timeout <= 0 {
		return next
	}
	return &timeoutClientRepository{next: next, timeout: timeout}
}

func (r *timeoutClientRepository) Create(ctx context.Context, client *domain.Client) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Create(ctx, client)
}

func (r *timeoutClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.FindByID(ctx, id)
}

func (r *timeoutClientRepository) Update(ctx context.Context, client *domain.Client) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Update(ctx, client)
}

func (r *timeoutClientRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Delete(ctx, id)
}

func (r *timeoutClientRepository) List(ctx context.Context, filter ClientFilter) ([]*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.List(ctx, filter)
}

func (r *timeoutClientRepository) Count(ctx context.Context, filter ClientFilter) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Count(ctx, filter)
}
