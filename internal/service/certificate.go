package service

import (
	"context"
	"fmt"

	"github.com/dtroode/certledger/internal/codec"
	"github.com/dtroode/certledger/internal/logger"
	"github.com/dtroode/certledger/internal/model"
)

// Certificate is the certificate registry. Certificates are never updated.
type Certificate struct {
	store  model.Store
	logger *logger.Logger
}

func NewCertificate(store model.Store, logger *logger.Logger) *Certificate {
	return &Certificate{
		store:  store,
		logger: logger,
	}
}

func (s *Certificate) Exists(ctx context.Context, id string) (bool, error) {
	return stateExists(ctx, s.store, model.KindCertificate, id)
}

func (s *Certificate) Create(ctx context.Context, certificate model.Certificate) error {
	if err := requireID(model.KindCertificate, certificate.ID); err != nil {
		return err
	}

	exists, err := s.Exists(ctx, certificate.ID)
	if err != nil {
		return err
	}
	if exists {
		return model.NewErrAlreadyExists(model.KindCertificate, certificate.ID)
	}

	data, err := codec.EncodeCertificate(certificate)
	if err != nil {
		return fmt.Errorf("failed to encode certificate: %w", err)
	}
	return putState(ctx, s.store, model.KindCertificate, certificate.ID, data)
}

func (s *Certificate) Read(ctx context.Context, id string) (model.Certificate, error) {
	data, err := getState(ctx, s.store, model.KindCertificate, id)
	if err != nil {
		return model.Certificate{}, err
	}
	if data == nil {
		return model.Certificate{}, model.NewErrNotFound(model.KindCertificate, id)
	}

	certificate, err := codec.DecodeCertificate(data)
	if err != nil {
		return model.Certificate{}, fmt.Errorf("failed to read certificate %s: %w", id, err)
	}
	return certificate, nil
}

// Delete removes the certificate. The owning account keeps the id in its
// certificate list.
func (s *Certificate) Delete(ctx context.Context, id string) error {
	if err := deleteState(ctx, s.store, model.KindCertificate, id); err != nil {
		return err
	}

	s.logger.Info("certificate deleted", "certificate_id", id)
	return nil
}
