package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dtroode/certledger/internal/logger"
	"github.com/dtroode/certledger/internal/metrics"
	"github.com/dtroode/certledger/internal/model"
)

const tracerName = "github.com/dtroode/certledger/internal/service"

// CourseReader is the part of the course registry issuance depends on.
type CourseReader interface {
	Exists(ctx context.Context, id string) (bool, error)
	Read(ctx context.Context, id string) (model.Course, error)
}

// AccountRegistry is the part of the account registry issuance depends on.
type AccountRegistry interface {
	Exists(ctx context.Context, id string) (bool, error)
	Read(ctx context.Context, id string) (model.Account, error)
	Update(ctx context.Context, patch model.AccountPatch) (model.Account, error)
}

// CertificateRegistry is the part of the certificate registry issuance
// depends on.
type CertificateRegistry interface {
	Create(ctx context.Context, certificate model.Certificate) error
	Read(ctx context.Context, id string) (model.Certificate, error)
}

// Issuance issues certificates for enrolled students. It spans the
// course, account and certificate records without any multi-key
// transaction, so it writes the certificate before the account that
// references it: an interruption can leave an unreferenced certificate,
// never an account pointing at a missing one.
type Issuance struct {
	courses      CourseReader
	accounts     AccountRegistry
	certificates CertificateRegistry
	publisher    model.EventPublisher
	metrics      *metrics.Metrics
	logger       *logger.Logger
	tracer       trace.Tracer

	newID func() string
	now   func() time.Time
}

func NewIssuance(
	courses CourseReader,
	accounts AccountRegistry,
	certificates CertificateRegistry,
	publisher model.EventPublisher,
	metrics *metrics.Metrics,
	tracerProvider trace.TracerProvider,
	logger *logger.Logger,
) *Issuance {
	if tracerProvider == nil {
		tracerProvider = otel.GetTracerProvider()
	}
	return &Issuance{
		courses:      courses,
		accounts:     accounts,
		certificates: certificates,
		publisher:    publisher,
		metrics:      metrics,
		logger:       logger,
		tracer:       tracerProvider.Tracer(tracerName),
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

// IssueCertificate creates a certificate for a student enrolled in the
// course and links it to the student's account. It returns the new
// certificate id.
//
// If the certificate is written but the account update fails, the error
// is an *model.IncompleteIssuanceError carrying the certificate id; the
// certificate stays readable and ReconcileCertificate can link it later.
func (s *Issuance) IssueCertificate(ctx context.Context, courseID, studentID string) (certificateID string, err error) {
	ctx, span := s.tracer.Start(ctx, "Issuance.IssueCertificate", trace.WithAttributes(
		attribute.String("course.id", courseID),
		attribute.String("student.id", studentID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	course, err := s.validate(ctx, courseID, studentID)
	if err != nil {
		return "", err
	}

	certificate := model.Certificate{
		ID:                  s.newID(),
		StudentID:           studentID,
		InstructorID:        course.InstructorID,
		CourseID:            course.ID,
		CompletionTimestamp: s.now().UTC(),
		DurationUnits:       course.DurationUnits,
	}
	span.SetAttributes(attribute.String("certificate.id", certificate.ID))

	if err := s.certificates.Create(ctx, certificate); err != nil {
		return "", fmt.Errorf("failed to create certificate: %w", err)
	}

	if _, err := s.link(ctx, certificate.ID, studentID); err != nil {
		s.metrics.IncrementIncompleteIssuances()
		s.logger.Error("certificate created but not linked to student",
			"certificate_id", certificate.ID,
			"course_id", courseID,
			"student_id", studentID,
			"error", err)
		return "", &model.IncompleteIssuanceError{
			CertificateID: certificate.ID,
			StudentID:     studentID,
			Err:           err,
		}
	}

	s.metrics.IncrementCertificatesIssued()
	s.logger.Info("certificate issued",
		"certificate_id", certificate.ID,
		"course_id", courseID,
		"student_id", studentID)

	s.publish(ctx, certificate)

	return certificate.ID, nil
}

// ReconcileCertificate links an existing certificate to its student's
// account when the link is missing. It reports whether the account was
// changed; linking an already linked certificate is a no-op.
func (s *Issuance) ReconcileCertificate(ctx context.Context, certificateID string) (linked bool, err error) {
	ctx, span := s.tracer.Start(ctx, "Issuance.ReconcileCertificate", trace.WithAttributes(
		attribute.String("certificate.id", certificateID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	certificate, err := s.certificates.Read(ctx, certificateID)
	if err != nil {
		return false, err
	}

	linked, err = s.link(ctx, certificate.ID, certificate.StudentID)
	if err != nil {
		return false, err
	}

	if linked {
		s.logger.Info("certificate reconciled",
			"certificate_id", certificate.ID,
			"student_id", certificate.StudentID)
	}
	return linked, nil
}

// validate runs the issuance preconditions in order and returns the course.
func (s *Issuance) validate(ctx context.Context, courseID, studentID string) (model.Course, error) {
	exists, err := s.courses.Exists(ctx, courseID)
	if err != nil {
		return model.Course{}, fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return model.Course{}, model.NewErrNotFound(model.KindCourse, courseID)
	}

	course, err := s.courses.Read(ctx, courseID)
	if err != nil {
		return model.Course{}, fmt.Errorf("failed to read course: %w", err)
	}

	instructorExists, err := s.accounts.Exists(ctx, course.InstructorID)
	if err != nil {
		return model.Course{}, fmt.Errorf("failed to check instructor: %w", err)
	}
	if !instructorExists {
		return model.Course{}, model.NewErrInvalidReference(model.FieldInstructor, course.InstructorID)
	}

	studentExists, err := s.accounts.Exists(ctx, studentID)
	if err != nil {
		return model.Course{}, fmt.Errorf("failed to check student: %w", err)
	}
	if !studentExists {
		return model.Course{}, model.NewErrNotFound(model.KindAccount, studentID)
	}

	if !slices.Contains(course.EnrolledStudentIDs, studentID) {
		return model.Course{}, model.NewErrNotEnrolled(studentID, courseID)
	}

	return course, nil
}

// link appends certificateID to the student's certificate list unless it
// is already there.
func (s *Issuance) link(ctx context.Context, certificateID, studentID string) (bool, error) {
	student, err := s.accounts.Read(ctx, studentID)
	if err != nil {
		return false, err
	}

	if slices.Contains(student.CertificateIDs, certificateID) {
		return false, nil
	}

	certificateIDs := append(slices.Clone(student.CertificateIDs), certificateID)
	if _, err := s.accounts.Update(ctx, model.AccountPatch{
		ID:             studentID,
		CertificateIDs: &certificateIDs,
	}); err != nil {
		return false, fmt.Errorf("failed to update student: %w", err)
	}

	return true, nil
}

func (s *Issuance) publish(ctx context.Context, certificate model.Certificate) {
	err := s.publisher.PublishCertificateIssued(ctx, model.CertificateIssued{
		CertificateID: certificate.ID,
		CourseID:      certificate.CourseID,
		StudentID:     certificate.StudentID,
		InstructorID:  certificate.InstructorID,
		IssuedAt:      certificate.CompletionTimestamp,
	})
	if err != nil {
		s.metrics.IncrementEventPublishFailures()
		s.logger.Warn("failed to publish certificate event",
			"certificate_id", certificate.ID,
			"error", err)
	}
}

// IsIncomplete reports whether err is an issuance whose certificate was
// written but not linked, and returns the certificate id.
func IsIncomplete(err error) (string, bool) {
	var incomplete *model.IncompleteIssuanceError
	if errors.As(err, &incomplete) {
		return incomplete.CertificateID, true
	}
	return "", false
}
