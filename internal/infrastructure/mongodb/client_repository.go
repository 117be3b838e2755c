package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

type clientRepository struct {
	collection *mongo.Collection
}

func NewClientRepository(client *mongo.Client, database, collection string) repository.ClientRepository {
	return &clientRepository{collection: client.Database(database).Collection(collection)}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	doc, err := toDocument(client)
	if err != nil {
		return err
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewError(domain.KindConflict, "client %s already exists", client.ID)
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	var doc clientDocument
	err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrClientNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return doc.toDomain()
}

// Update replaces the document only while it still carries client.Version
func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	doc, err := toDocument(client)
	if err != nil {
		return err
	}
	doc.Version = client.Version + 1

	filter := bson.D{{Key: "_id", Value: client.ID}, {Key: "version", Value: client.Version}}
	result, err := r.collection.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	if result.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.D{{Key: "_id", Value: client.ID}})
		if err != nil {
			return fmt.Errorf("failed to check client: %w", err)
		}
		if count == 0 {
			return domain.ErrClientNotFound(client.ID)
		}
		return domain.ErrVersionConflict(client.ID)
	}

	client.Version = doc.Version
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrClientNotFound(id)
	}
	return nil
}

func (r *clientRepository) List(ctx context.Context, filter repository.ClientFilter) ([]*domain.Client, error) {
	opts := options.Find().SetSort(buildSort(filter.Order))
	if filter.PerPage > 0 {
		opts.SetLimit(int64(filter.PerPage))
		opts.SetSkip(int64(filter.Offset()))
	}

	cursor, err := r.collection.Find(ctx, buildFilter(filter.Filters), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []clientDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %w", err)
	}

	clients := make([]*domain.Client, 0, len(docs))
	for i := range docs {
		client, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context, filter repository.ClientFilter) (int, error) {
	count, err := r.collection.CountDocuments(ctx, buildFilter(filter.Filters))
	if err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return int(count), nil
}
