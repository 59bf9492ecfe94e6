package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithFormat_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithFormat(0, FormatJSON, &buf)

	l.With("component", "issuance").Info("certificate issued", "certificate_id", "x")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "certificate issued", record["msg"])
	assert.Equal(t, "issuance", record["component"])
	assert.Equal(t, "x", record["certificate_id"])
}

func TestNewWithFormat_TextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithFormat(4, "unknown", &buf)

	l.Info("dropped")
	assert.Empty(t, buf.String())

	l.Warn("kept", "key", "value")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "key=value")
}
