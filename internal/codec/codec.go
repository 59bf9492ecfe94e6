// Package codec maps ledger entities to and from the bytes stored under
// their keys.
//
// Stored records are flat JSON objects tagged with a schema version. List
// fields are kept as one JSON-array string and timestamps as RFC 3339
// strings in UTC, so a record decodes to the same domain value whichever
// backend holds it. Encode output is canonical: decoding it and encoding
// the result again yields identical bytes.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// SchemaVersion is written into every record produced by this package.
const SchemaVersion = 1

const timeLayout = time.RFC3339Nano

func checkVersion(v int) error {
	if v != SchemaVersion {
		return fmt.Errorf("unsupported schema version %d", v)
	}
	return nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(raw), nil
}

func decodeList(raw string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	if values == nil {
		return nil, fmt.Errorf("list field is null")
	}
	return values, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(raw string) (time.Time, error) {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to decode timestamp: %w", err)
	}
	return t.UTC(), nil
}

func unmarshalStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
