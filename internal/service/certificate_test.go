package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/certledger/internal/model"
)

func TestCertificate(t *testing.T) {
	ctx := context.Background()
	completed := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	certificate := model.Certificate{
		ID:                  "cert-1",
		StudentID:           "s",
		InstructorID:        "i",
		CourseID:            "c",
		CompletionTimestamp: completed,
		DurationUnits:       40,
	}

	t.Run("create read delete", func(t *testing.T) {
		l := newLedger(t)

		require.NoError(t, l.certificates.Create(ctx, certificate))

		exists, err := l.certificates.Exists(ctx, "cert-1")
		require.NoError(t, err)
		assert.True(t, exists)

		got, err := l.certificates.Read(ctx, "cert-1")
		require.NoError(t, err)
		assert.Equal(t, certificate, got)

		require.NoError(t, l.certificates.Delete(ctx, "cert-1"))

		_, err = l.certificates.Read(ctx, "cert-1")
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.EqualError(t, err, "the certificate cert-1 does not exist")
	})

	t.Run("already exists", func(t *testing.T) {
		l := newLedger(t)
		require.NoError(t, l.certificates.Create(ctx, certificate))

		other := certificate
		other.StudentID = "someone-else"
		err := l.certificates.Create(ctx, other)
		assert.ErrorIs(t, err, model.ErrAlreadyExists)

		got, err := l.certificates.Read(ctx, "cert-1")
		require.NoError(t, err)
		assert.Equal(t, "s", got.StudentID)
	})

	t.Run("delete missing", func(t *testing.T) {
		l := newLedger(t)
		err := l.certificates.Delete(ctx, "missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		l := newLedger(t)
		err := l.certificates.Create(ctx, model.Certificate{StudentID: "s"})
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	})
}
