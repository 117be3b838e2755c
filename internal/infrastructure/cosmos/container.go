// Package cosmos stores clients in an Azure Cosmos DB container partitioned by client id.
package cosmos

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
)

// Options selects the account and container. ConnectionString takes precedence;
// otherwise Endpoint is used with the default Azure credential chain.
type Options struct {
	ConnectionString string
	Endpoint         string
	Database         string
	Container        string
}

// itemContainer is the subset of *azcosmos.ContainerClient the store uses
type itemContainer interface {
	CreateItem(ctx context.Context, partitionKey azcosmos.PartitionKey, item []byte, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	ReadItem(ctx context.Context, partitionKey azcosmos.PartitionKey, itemID string, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	ReplaceItem(ctx context.Context, partitionKey azcosmos.PartitionKey, itemID string, item []byte, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	DeleteItem(ctx context.Context, partitionKey azcosmos.PartitionKey, itemID string, o *azcosmos.ItemOptions) (azcosmos.ItemResponse, error)
	NewQueryItemsPager(query string, partitionKey azcosmos.PartitionKey, o *azcosmos.QueryOptions) *runtime.Pager[azcosmos.QueryItemsResponse]
}

// NewContainer builds the container client for opts
func NewContainer(opts Options) (*azcosmos.ContainerClient, error) {
	if opts.Database == "" || opts.Container == "" {
		return nil, errors.New("cosmos database and container are required")
	}

	var (
		client *azcosmos.Client
		err    error
	)
	switch {
	case opts.ConnectionString != "":
		client, err = azcosmos.NewClientFromConnectionString(opts.ConnectionString, nil)
	case opts.Endpoint != "":
		var cred *azidentity.DefaultAzureCredential
		cred, err = azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure credential: %w", err)
		}
		client, err = azcosmos.NewClient(opts.Endpoint, cred, nil)
	default:
		return nil, errors.New("cosmos connection string or endpoint is required")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create cosmos client: %w", err)
	}

	container, err := client.NewContainer(opts.Database, opts.Container)
	if err != nil {
		return nil, fmt.Errorf("failed to open cosmos container: %w", err)
	}
	return container, nil
}

func hasStatus(err error, status int) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == status
}

func isNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func isPreconditionFailed(err error) bool {
	return hasStatus(err, http.StatusPreconditionFailed)
}

func isConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}
