package model

import "context"

// Store is the key-value ledger the registries persist into. Each call is
// atomic for its single key; there are no multi-key transactions.
//
// Get returns a nil slice and no error when nothing is stored under key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by store backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
