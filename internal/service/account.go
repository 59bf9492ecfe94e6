package service

import (
	"context"
	"fmt"

	"github.com/dtroode/certledger/internal/codec"
	"github.com/dtroode/certledger/internal/logger"
	"github.com/dtroode/certledger/internal/model"
)

// Account is the account registry.
type Account struct {
	store  model.Store
	logger *logger.Logger
}

func NewAccount(store model.Store, logger *logger.Logger) *Account {
	return &Account{
		store:  store,
		logger: logger,
	}
}

func (s *Account) Exists(ctx context.Context, id string) (bool, error) {
	return stateExists(ctx, s.store, model.KindAccount, id)
}

func (s *Account) Create(ctx context.Context, account model.Account) error {
	if err := requireID(model.KindAccount, account.ID); err != nil {
		return err
	}
	if len(account.CertificateIDs) > 0 {
		return model.NewErrInvalidArgument("certificateIds are written by certificate issuance")
	}

	exists, err := s.Exists(ctx, account.ID)
	if err != nil {
		return err
	}
	if exists {
		return model.NewErrAlreadyExists(model.KindAccount, account.ID)
	}

	if err := s.save(ctx, account); err != nil {
		return err
	}

	s.logger.Debug("account created", "account_id", account.ID)
	return nil
}

func (s *Account) Read(ctx context.Context, id string) (model.Account, error) {
	data, err := getState(ctx, s.store, model.KindAccount, id)
	if err != nil {
		return model.Account{}, err
	}
	if data == nil {
		return model.Account{}, model.NewErrNotFound(model.KindAccount, id)
	}

	account, err := codec.DecodeAccount(data)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to read account %s: %w", id, err)
	}
	return account, nil
}

// Update merges the patch over the stored account and returns the result.
func (s *Account) Update(ctx context.Context, patch model.AccountPatch) (model.Account, error) {
	existing, err := s.Read(ctx, patch.ID)
	if err != nil {
		return model.Account{}, err
	}

	updated := patch.Apply(existing)
	if err := s.save(ctx, updated); err != nil {
		return model.Account{}, err
	}

	return updated, nil
}

// Delete removes the account. Courses and certificates that reference it
// are left untouched.
func (s *Account) Delete(ctx context.Context, id string) error {
	if err := deleteState(ctx, s.store, model.KindAccount, id); err != nil {
		return err
	}

	s.logger.Debug("account deleted", "account_id", id)
	return nil
}

func (s *Account) save(ctx context.Context, account model.Account) error {
	data, err := codec.EncodeAccount(account)
	if err != nil {
		return fmt.Errorf("failed to encode account: %w", err)
	}
	return putState(ctx, s.store, model.KindAccount, account.ID, data)
}
