package service

import (
	"context"
	"fmt"

	"github.com/dtroode/certledger/internal/model"
)

// getState reads the raw record of an entity. A nil or empty value means
// the entity does not exist.
func getState(ctx context.Context, store model.Store, kind model.EntityKind, id string) ([]byte, error) {
	data, err := store.Get(ctx, kind.Key(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

func stateExists(ctx context.Context, store model.Store, kind model.EntityKind, id string) (bool, error) {
	data, err := getState(ctx, store, kind, id)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

func putState(ctx context.Context, store model.Store, kind model.EntityKind, id string, data []byte) error {
	if err := store.Put(ctx, kind.Key(id), data); err != nil {
		return fmt.Errorf("failed to put %s %s: %w", kind, id, err)
	}
	return nil
}

func deleteState(ctx context.Context, store model.Store, kind model.EntityKind, id string) error {
	exists, err := stateExists(ctx, store, kind, id)
	if err != nil {
		return err
	}
	if !exists {
		return model.NewErrNotFound(kind, id)
	}
	if err := store.Delete(ctx, kind.Key(id)); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	return nil
}

func requireID(kind model.EntityKind, id string) error {
	if id == "" {
		return model.NewErrInvalidArgument("%s id is required", kind)
	}
	return nil
}
