// Package clientstore picks the client store backend named by store_driver.
package clientstore

import (
	"context"
	"fmt"

	"github.com/jpbaz28/Banking-API/internal/core/repository"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/cosmos"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/memory"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/mongodb"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/sqlite"
	"github.com/jpbaz28/Banking-API/pkg/config"
)

const (
	DriverSQLite  = "sqlite"
	DriverMemory  = "memory"
	DriverMongoDB = "mongodb"
	DriverCosmos  = "cosmos"
)

// Store is a client repository plus whatever connection it owns.
type Store struct {
	repository.ClientRepository
	Driver string

	close func(ctx context.Context) error
}

// Close releases the backend connection. The sqlite database is owned by the
// caller and is left open.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// New builds the configured client store. Every call on the returned store is
// bounded by cfg.StoreTimeout.
func New(ctx context.Context, cfg *config.Config, db *sqlite.DB) (*Store, error) {
	store := &Store{Driver: cfg.StoreDriver}

	var repo repository.ClientRepository
	switch cfg.StoreDriver {
	case DriverSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite client store needs an open database")
		}
		repo = sqlite.NewClientRepository(db)

	case DriverMemory:
		repo = memory.NewClientRepository()

	case DriverMongoDB:
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		repo = mongodb.NewClientRepository(client, cfg.MongoDatabase, cfg.MongoCollection)
		store.close = client.Disconnect

	case DriverCosmos:
		container, err := cosmos.NewContainer(cosmos.Options{
			ConnectionString: cfg.CosmosConnectionString,
			Endpoint:         cfg.CosmosEndpoint,
			Database:         cfg.CosmosDatabase,
			Container:        cfg.CosmosContainer,
		})
		if err != nil {
			return nil, err
		}
		repo = cosmos.NewClientRepository(container)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	store.ClientRepository = repository.WithTimeout(repo, cfg.StoreTimeout)
	return store, nil
}
