package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

type accountDocument struct {
	Name   string               `bson:"name"`
	Amount primitive.Decimal128 `bson:"amount"`
}

type clientDocument struct {
	ID        string            `bson:"_id"`
	FirstName string            `bson:"fname"`
	LastName  string            `bson:"lname"`
	Accounts  []accountDocument `bson:"accounts"`
	Version   int64             `bson:"version"`
	CreatedAt time.Time         `bson:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

func toDocument(c *domain.Client) (*clientDocument, error) {
	doc := &clientDocument{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Accounts:  make([]accountDocument, 0, len(c.Accounts)),
		Version:   c.Version,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
	for _, a := range c.Accounts {
		amount, err := primitive.ParseDecimal128(a.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("failed to encode amount of account %q: %w", a.Name, err)
		}
		doc.Accounts = append(doc.Accounts, accountDocument{Name: a.Name, Amount: amount})
	}
	return doc, nil
}

func (d *clientDocument) toDomain() (*domain.Client, error) {
	client := &domain.Client{
		ID:        d.ID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Accounts:  make([]domain.Account, 0, len(d.Accounts)),
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, a := range d.Accounts {
		amount, err := decimal.NewFromString(a.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("failed to decode amount of account %q: %w", a.Name, err)
		}
		client.Accounts = append(client.Accounts, domain.Account{Name: a.Name, Amount: amount})
	}
	return client, nil
}
