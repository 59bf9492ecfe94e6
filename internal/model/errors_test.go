package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_MatchSentinels(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "not found",
			err:      NewErrNotFound(KindCourse, "c1"),
			sentinel: ErrNotFound,
			message:  "the course c1 does not exist",
		},
		{
			name:     "already exists",
			err:      NewErrAlreadyExists(KindAccount, "a1"),
			sentinel: ErrAlreadyExists,
			message:  "the account a1 already exists",
		},
		{
			name:     "already enrolled",
			err:      NewErrAlreadyEnrolled("s1", "c1"),
			sentinel: ErrAlreadyEnrolled,
			message:  "the account s1 is already enrolled in the course c1",
		},
		{
			name:     "not enrolled",
			err:      NewErrNotEnrolled("s1", "c1"),
			sentinel: ErrNotEnrolled,
			message:  "the account s1 is not enrolled in the course c1",
		},
		{
			name:     "invalid reference",
			err:      NewErrInvalidReference(FieldInstructor, "i1"),
			sentinel: ErrInvalidReference,
			message:  "the instructor i1 does not exist",
		},
		{
			name:     "incomplete issuance",
			err:      &IncompleteIssuanceError{CertificateID: "x", StudentID: "s1", Err: cause},
			sentinel: ErrIncompleteIssuance,
			message:  "certificate x was created but account s1 was not updated: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("failed to run: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestIncompleteIssuanceError_Unwrap(t *testing.T) {
	cause := errors.New("store unavailable")
	err := &IncompleteIssuanceError{CertificateID: "x", StudentID: "s", Err: cause}

	assert.ErrorIs(t, err, cause)

	var target *IncompleteIssuanceError
	assert.True(t, errors.As(fmt.Errorf("wrap: %w", err), &target))
	assert.Equal(t, "x", target.CertificateID)
}

func TestNotFoundError_DoesNotMatchOtherSentinels(t *testing.T) {
	err := NewErrNotFound(KindAccount, "a")
	assert.NotErrorIs(t, err, ErrAlreadyExists)
	assert.NotErrorIs(t, err, ErrInvalidReference)
}

func TestNewErrInvalidArgument(t *testing.T) {
	err := NewErrInvalidArgument("missing %s", "id")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "invalid argument: missing id", err.Error())
}
