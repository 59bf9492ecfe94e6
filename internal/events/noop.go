// Package events publishes ledger events to downstream consumers.
package events

import (
	"context"

	"github.com/dtroode/certledger/internal/model"
)

var _ model.EventPublisher = Noop{}

// Noop drops every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishCertificateIssued(context.Context, model.CertificateIssued) error {
	return nil
}
