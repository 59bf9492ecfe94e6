package model

import (
	"context"
	"time"
)

// EventCertificateIssued is the name of the event emitted after issuance.
const EventCertificateIssued = "CertificateIssued"

// CertificateIssued describes a completed issuance.
type CertificateIssued struct {
	CertificateID string    `json:"certificateId"`
	CourseID      string    `json:"courseId"`
	StudentID     string    `json:"studentId"`
	InstructorID  string    `json:"instructorId"`
	IssuedAt      time.Time `json:"issuedAt"`
}

// EventPublisher delivers ledger events to downstream consumers.
type EventPublisher interface {
	PublishCertificateIssued(ctx context.Context, event CertificateIssued) error
}
