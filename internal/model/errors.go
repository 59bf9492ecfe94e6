package model

import (
	"errors"
	"fmt"
)

// Sentinels for the ledger error taxonomy. The typed errors below match
// them through errors.Is, so callers can branch on the class of failure
// and still read the entity kind and id from the message.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrAlreadyEnrolled    = errors.New("already enrolled")
	ErrNotEnrolled        = errors.New("not enrolled")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrIncompleteIssuance = errors.New("incomplete issuance")
)

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Kind EntityKind
	ID   string
}

func NewErrNotFound(kind EntityKind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("the %s %s does not exist", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AlreadyExistsError reports a create over an occupied id.
type AlreadyExistsError struct {
	Kind EntityKind
	ID   string
}

func NewErrAlreadyExists(kind EntityKind, id string) *AlreadyExistsError {
	return &AlreadyExistsError{Kind: kind, ID: id}
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("the %s %s already exists", e.Kind, e.ID)
}

func (e *AlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

// AlreadyEnrolledError reports a second enrollment of the same student.
type AlreadyEnrolledError struct {
	StudentID string
	CourseID  string
}

func NewErrAlreadyEnrolled(studentID, courseID string) *AlreadyEnrolledError {
	return &AlreadyEnrolledError{StudentID: studentID, CourseID: courseID}
}

func (e *AlreadyEnrolledError) Error() string {
	return fmt.Sprintf("the account %s is already enrolled in the course %s", e.StudentID, e.CourseID)
}

func (e *AlreadyEnrolledError) Is(target error) bool { return target == ErrAlreadyEnrolled }

// NotEnrolledError reports a student missing from a course roster.
type NotEnrolledError struct {
	StudentID string
	CourseID  string
}

func NewErrNotEnrolled(studentID, courseID string) *NotEnrolledError {
	return &NotEnrolledError{StudentID: studentID, CourseID: courseID}
}

func (e *NotEnrolledError) Error() string {
	return fmt.Sprintf("the account %s is not enrolled in the course %s", e.StudentID, e.CourseID)
}

func (e *NotEnrolledError) Is(target error) bool { return target == ErrNotEnrolled }

// Reference fields validated against the account registry.
const (
	FieldInstructor = "instructor"
)

// InvalidReferenceError reports a field pointing at an account that does
// not exist.
type InvalidReferenceError struct {
	Field string
	ID    string
}

func NewErrInvalidReference(field, id string) *InvalidReferenceError {
	return &InvalidReferenceError{Field: field, ID: id}
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("the %s %s does not exist", e.Field, e.ID)
}

func (e *InvalidReferenceError) Is(target error) bool { return target == ErrInvalidReference }

// IncompleteIssuanceError is returned when a certificate was written but
// the student account could not be updated to reference it. The
// certificate remains valid and can be linked with a reconcile call.
type IncompleteIssuanceError struct {
	CertificateID string
	StudentID     string
	Err           error
}

func (e *IncompleteIssuanceError) Error() string {
	return fmt.Sprintf("certificate %s was created but account %s was not updated: %v",
		e.CertificateID, e.StudentID, e.Err)
}

func (e *IncompleteIssuanceError) Is(target error) bool { return target == ErrIncompleteIssuance }

func (e *IncompleteIssuanceError) Unwrap() error { return e.Err }

// NewErrInvalidArgument wraps a malformed input description.
func NewErrInvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
