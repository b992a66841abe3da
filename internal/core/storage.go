package core

import (
	"context"
	"fmt"

	"catalogcore/internal/blob"
	"catalogcore/internal/config"
	"catalogcore/internal/infra/persistence/blobstate"
	"catalogcore/internal/infra/persistence/file"
	"catalogcore/internal/infra/persistence/memory"
	"catalogcore/internal/infra/persistence/postgres"
	"catalogcore/internal/infra/persistence/sqlite"
	"catalogcore/pkg/domain"
)

// StorageDriver identifies a concrete persistence gateway.
type StorageDriver string

// Supported storage drivers.
const (
	StorageFile     StorageDriver = "file"     // JSON files in a data directory (default)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageBlob     StorageDriver = "blob"     // blob store: fs, s3 or memory
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
)

// OpenGateway builds the gateway selected by cfg.Storage.Driver.
func OpenGateway(ctx context.Context, cfg config.Config) (domain.Gateway, error) {
	driver := StorageDriver(cfg.Storage.Driver)
	if driver == "" {
		driver = StorageFile
	}
	switch driver {
	case StorageFile:
		return gatewayOrNil(file.NewStore(cfg.Storage.DataDir))
	case StorageSQLite:
		return gatewayOrNil(sqlite.NewStore(cfg.Storage.SQLitePath))
	case StoragePostgres:
		return gatewayOrNil(postgres.NewStore(ctx, cfg.Storage.PostgresDSN))
	case StorageBlob:
		store, err := blob.Open(ctx, blob.Options{
			Driver: blob.Driver(cfg.Blob.Driver),
			FSRoot: cfg.Blob.FSRoot,
			S3: blob.S3Config{
				Bucket:    cfg.Blob.S3Bucket,
				Region:    cfg.Blob.S3Region,
				Endpoint:  cfg.Blob.S3Endpoint,
				PathStyle: cfg.Blob.S3PathStyle,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		return gatewayOrNil(blobstate.NewStore(store, cfg.Blob.Prefix))
	case StorageMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// gatewayOrNil keeps a failed constructor's typed nil out of the interface.
func gatewayOrNil[G domain.Gateway](g G, err error) (domain.Gateway, error) {
	if err != nil {
		return nil, err
	}
	return g, nil
}
