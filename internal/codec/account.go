package codec

import (
	"encoding/json"
	"fmt"

	"github.com/dtroode/certledger/internal/model"
)

type accountRecord struct {
	SchemaVersion  int    `json:"schemaVersion"`
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	PublicKey      string `json:"publicKey"`
	CertificateIDs string `json:"certificateIds"`
}

// EncodeAccount serializes an account into its stored form.
func EncodeAccount(account model.Account) ([]byte, error) {
	certificates, err := encodeList(account.CertificateIDs)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", account.ID, err)
	}

	return json.Marshal(accountRecord{
		SchemaVersion:  SchemaVersion,
		ID:             account.ID,
		Name:           account.Name,
		Email:          account.Email,
		PublicKey:      account.PublicKey,
		CertificateIDs: certificates,
	})
}

// DecodeAccount parses a stored account.
func DecodeAccount(data []byte) (model.Account, error) {
	var rec accountRecord
	if err := unmarshalStrict(data, &rec); err != nil {
		return model.Account{}, fmt.Errorf("failed to decode account: %w", err)
	}
	if err := checkVersion(rec.SchemaVersion); err != nil {
		return model.Account{}, fmt.Errorf("account %s: %w", rec.ID, err)
	}

	certificates, err := decodeList(rec.CertificateIDs)
	if err != nil {
		return model.Account{}, fmt.Errorf("account %s: %w", rec.ID, err)
	}

	return model.Account{
		ID:             rec.ID,
		Name:           rec.Name,
		Email:          rec.Email,
		PublicKey:      rec.PublicKey,
		CertificateIDs: certificates,
	}, nil
}
