package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

type ClientService struct {
	clientRepo repository.ClientRepository
	maxRetries int
	logger     zerolog.Logger
}

func NewClientService(clientRepo repository.ClientRepository, maxRetries int, logger zerolog.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		maxRetries: maxRetries,
		logger:     logger.With().Str("component", "client_service").Logger(),
	}
}

// CreateClient assigns an id, defaults the account list to empty and persists the client
func (s *ClientService) CreateClient(ctx context.Context, firstName, lastName string, accounts []domain.Account) (*domain.Client, error) {
	client, err := domain.NewClient(firstName, lastName, accounts)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, storeError(err, "failed to create client")
	}

	s.logger.Info().Str("client_id", client.ID).Msg("client created")
	return client, nil
}

func (s *ClientService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to get client")
	}
	return client, nil
}

// ListClients returns the clients matching filter. An empty filter returns every client.
func (s *ClientService) ListClients(ctx context.Context, filter repository.ClientFilter) ([]*domain.Client, error) {
	clients, err := s.clientRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "failed to list clients")
	}
	if clients == nil {
		clients = []*domain.Client{}
	}
	return clients, nil
}

func (s *ClientService) CountClients(ctx context.Context, filter repository.ClientFilter) (int, error) {
	count, err := s.clientRepo.Count(ctx, filter)
	if err != nil {
		return 0, storeError(err, "failed to count clients")
	}
	return count, nil
}

// ReplaceClient replaces the names and accounts of an existing client.
//
// A non-zero expectedVersion must match the stored version, otherwise the call fails
// with Conflict and nothing is written. With expectedVersion 0 the replacement is applied
// to whatever version is current, retrying if another writer gets in between.
func (s *ClientService) ReplaceClient(
	ctx context.Context,
	id string,
	firstName string,
	lastName string,
	accounts []domain.Account,
	expectedVersion int64,
) (*domain.Client, error) {
	var replaced *domain.Client

	err := retryOnConflict(ctx, s.logger, s.maxRetries, "replace", func() error {
		current, err := s.clientRepo.FindByID(ctx, id)
		if err != nil {
			return storeError(err, "failed to get client")
		}
		if expectedVersion != 0 && current.Version != expectedVersion {
			return stop(domain.NewError(domain.KindConflict,
				"client %s is at version %d, not %d", id, current.Version, expectedVersion))
		}

		next := current.Clone()
		next.FirstName = firstName
		next.LastName = lastName
		next.Accounts = append([]domain.Account{}, accounts...)
		if err := next.Validate(); err != nil {
			return err
		}
		next.Touch()

		if err := s.clientRepo.Update(ctx, next); err != nil {
			return storeError(err, "failed to replace client")
		}
		replaced = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("client_id", id).Int64("version", replaced.Version).Msg("client replaced")
	return replaced, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return storeError(err, "failed to delete client")
	}
	s.logger.Info().Str("client_id", id).Msg("client deleted")
	return nil
}
