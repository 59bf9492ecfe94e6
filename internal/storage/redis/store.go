package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/certledger/internal/model"
)

// Subset of the go-redis client used by Store, narrowed so tests can run
// without a server.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

var _ model.Store = (*Store)(nil)

// Store keeps each ledger key as a plain Redis string. Keys may be
// namespaced with a prefix so several ledgers can share one database.
type Store struct {
	api    redisAPI
	prefix string
}

// NewStore wraps a connected client.
func NewStore(client *redis.Client, prefix string) *Store {
	return NewStoreWithAPI(client, prefix)
}

// NewStoreWithAPI allows injecting a fake client (used in tests).
func NewStoreWithAPI(api redisAPI, prefix string) *Store {
	return &Store{api: api, prefix: prefix}
}

func (s *Store) key(key string) string {
	return s.prefix + key
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.api.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get state %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.api.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to put state %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.api.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete state %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.api.Ping(ctx).Err()
}
