package repository

import (
	"context"

	"github.com/jpbaz28/Banking-API/internal/api/util"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

// ClientFilter embeds ListFilter for generic query/order/pagination
type ClientFilter struct {
	util.ListFilter
}

// ClientFields are the fields accepted by the client list endpoint
var ClientFields = util.FieldSet{
	Query: []string{"id", "fname", "lname", "created_at", "updated_at"},
	Order: []string{"fname", "lname", "created_at", "updated_at"},
}

// ClientRepository is the client store contract.
//
// Update is a conditional full replace: it succeeds only when the stored record
// still carries client.Version, and on success the store sets client.Version to
// the new stamp. It fails with a NotFound error when no record exists and a
// Conflict error when the stored version differs.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ClientFilter) ([]*domain.Client, error)
	Count(ctx context.Context, filter ClientFilter) (int, error)
}
