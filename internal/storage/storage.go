// Package storage opens the key-value backend that holds ledger state.
package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/certledger/internal/config"
	"github.com/dtroode/certledger/internal/model"
	"github.com/dtroode/certledger/internal/storage/memory"
	miniostore "github.com/dtroode/certledger/internal/storage/minio"
	"github.com/dtroode/certledger/internal/storage/postgres"
	redisstore "github.com/dtroode/certledger/internal/storage/redis"
)

// StoreWithPing is a store whose backend can be health checked.
type StoreWithPing interface {
	model.Store
	model.Pinger
}

// Backend is an opened store together with its release function.
type Backend struct {
	Store StoreWithPing
	Name  string
	close func() error
}

// Close releases the connections held by the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects to the backend selected in cfg.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory, "":
		return &Backend{Store: memory.New(), Name: config.BackendMemory}, nil

	case config.BackendPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: postgres.NewStore(conn.DB), Name: config.BackendPostgres, close: conn.Close}, nil

	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, redisstore.Options{
			URL:          cfg.Redis.URL,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.Timeout,
			ReadTimeout:  cfg.Redis.Timeout,
			WriteTimeout: cfg.Redis.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return &Backend{Store: redisstore.NewStore(client, cfg.Redis.KeyPrefix), Name: config.BackendRedis, close: client.Close}, nil

	case config.BackendMinio:
		client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		store, err := miniostore.NewClient(ctx, client, cfg.Storage.Bucket)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store, Name: config.BackendMinio}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
