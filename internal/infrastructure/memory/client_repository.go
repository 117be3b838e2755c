// Package memory holds map-backed stores with the same contract as the database stores.
package memory

import (
	"context"
	"sync"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

type clientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client
}

func NewClientRepository() repository.ClientRepository {
	return &clientRepository{clients: make(map[string]*domain.Client)}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[client.ID]; exists {
		return domain.NewError(domain.KindConflict, "client %s already exists", client.ID)
	}
	r.clients[client.ID] = client.Clone()
	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound(id)
	}
	return client.Clone(), nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.clients[client.ID]
	if !ok {
		return domain.ErrClientNotFound(client.ID)
	}
	if stored.Version != client.Version {
		return domain.ErrVersionConflict(client.ID)
	}

	next := client.Clone()
	next.Version = stored.Version + 1
	next.CreatedAt = stored.CreatedAt
	r.clients[client.ID] = next
	client.Version = next.Version
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[id]; !ok {
		return domain.ErrClientNotFound(id)
	}
	delete(r.clients, id)
	return nil
}

func (r *clientRepository) List(ctx context.Context, filter repository.ClientFilter) ([]*domain.Client, error) {
	page, _, err := r.query(ctx, filter)
	return page, err
}

func (r *clientRepository) Count(ctx context.Context, filter repository.ClientFilter) (int, error) {
	_, total, err := r.query(ctx, filter)
	return total, err
}

func (r *clientRepository) query(ctx context.Context, filter repository.ClientFilter) ([]*domain.Client, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	snapshot := make([]*domain.Client, 0, len(r.clients))
	for _, c := range r.clients {
		snapshot = append(snapshot, c.Clone())
	}
	r.mu.RUnlock()

	page, total := repository.ApplyClientFilter(snapshot, filter)
	return page, total, nil
}
