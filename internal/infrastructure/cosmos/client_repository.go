package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"github.com/shopspring/decimal"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

// itemAmount is written as a JSON number, the shape existing Clients documents
// use. Quoted decimal strings are accepted on read.
type itemAmount decimal.Decimal

func (a itemAmount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).String()), nil
}

func (a *itemAmount) UnmarshalJSON(data []byte) error {
	return (*decimal.Decimal)(a).UnmarshalJSON(data)
}

type accountItem struct {
	Name   string     `json:"name"`
	Amount itemAmount `json:"amount"`
}

type clientItem struct {
	ID        string        `json:"id"`
	FirstName string        `json:"fname"`
	LastName  string        `json:"lname"`
	Accounts  []accountItem `json:"account"`
	Version   int64         `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func toItem(c *domain.Client) clientItem {
	item := clientItem{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Accounts:  make([]accountItem, 0, len(c.Accounts)),
		Version:   c.Version,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
	for _, a := range c.Accounts {
		item.Accounts = append(item.Accounts, accountItem{Name: a.Name, Amount: itemAmount(a.Amount)})
	}
	return item
}

func decodeItem(raw []byte) (*domain.Client, error) {
	var item clientItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to decode client item: %w", err)
	}

	client := &domain.Client{
		ID:        item.ID,
		FirstName: item.FirstName,
		LastName:  item.LastName,
		Accounts:  make([]domain.Account, 0, len(item.Accounts)),
		Version:   item.Version,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	for _, a := range item.Accounts {
		client.Accounts = append(client.Accounts, domain.Account{Name: a.Name, Amount: decimal.Decimal(a.Amount)})
	}
	return client, nil
}

type clientRepository struct {
	container itemContainer
}

func NewClientRepository(container *azcosmos.ContainerClient) repository.ClientRepository {
	return &clientRepository{container: container}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	body, err := json.Marshal(toItem(client))
	if err != nil {
		return fmt.Errorf("failed to marshal client: %w", err)
	}

	_, err = r.container.CreateItem(ctx, azcosmos.NewPartitionKeyString(client.ID), body, nil)
	if isConflict(err) {
		return domain.NewError(domain.KindConflict, "client %s already exists", client.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	resp, err := r.container.ReadItem(ctx, azcosmos.NewPartitionKeyString(id), id, nil)
	if isNotFound(err) {
		return nil, domain.ErrClientNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read client: %w", err)
	}
	return decodeItem(resp.Value)
}

// Update checks the stored version, then replaces the item guarded by the ETag
// that was read, so a write landing in between fails with 412.
func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	pk := azcosmos.NewPartitionKeyString(client.ID)

	current, err := r.container.ReadItem(ctx, pk, client.ID, nil)
	if isNotFound(err) {
		return domain.ErrClientNotFound(client.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to read client: %w", err)
	}

	stored, err := decodeItem(current.Value)
	if err != nil {
		return err
	}
	if stored.Version != client.Version {
		return domain.ErrVersionConflict(client.ID)
	}

	item := toItem(client)
	item.Version = client.Version + 1
	item.CreatedAt = stored.CreatedAt.UTC()
	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal client: %w", err)
	}

	etag := current.ETag
	_, err = r.container.ReplaceItem(ctx, pk, client.ID, body, &azcosmos.ItemOptions{IfMatchEtag: &etag})
	if isPreconditionFailed(err) {
		return domain.ErrVersionConflict(client.ID)
	}
	if isNotFound(err) {
		return domain.ErrClientNotFound(client.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to replace client: %w", err)
	}

	client.Version = item.Version
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	_, err := r.container.DeleteItem(ctx, azcosmos.NewPartitionKeyString(id), id, nil)
	if isNotFound(err) {
		return domain.ErrClientNotFound(id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// all reads every client with a cross-partition query. Filtering and ordering
// happen in memory with the shared repository helpers.
func (r *clientRepository) all(ctx context.Context) ([]*domain.Client, error) {
	pager := r.container.NewQueryItemsPager("SELECT * FROM c", azcosmos.NewPartitionKey(), nil)

	clients := []*domain.Client{}
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query clients: %w", err)
		}
		for _, raw := range page.Items {
			client, err := decodeItem(raw)
			if err != nil {
				return nil, err
			}
			clients = append(clients, client)
		}
	}
	return clients, nil
}

func (r *clientRepository) List(ctx context.Context, filter repository.ClientFilter) ([]*domain.Client, error) {
	clients, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	page, _ := repository.ApplyClientFilter(clients, filter)
	return page, nil
}

func (r *clientRepository) Count(ctx context.Context, filter repository.ClientFilter) (int, error) {
	clients, err := r.all(ctx)
	if err != nil {
		return 0, err
	}
	_, total := repository.ApplyClientFilter(clients, filter)
	return total, nil
}
