package repository

import (
	"context"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

type CredentialRepository interface {
	Create(ctx context.Context, credential *domain.Credential) error
	FindByID(ctx context.Context, id string) (*domain.Credential, error)
	Update(ctx context.Context, credential *domain.Credential) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Credential, error)
}
