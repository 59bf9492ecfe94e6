package codec

import (
	"encoding/json"
	"fmt"

	"github.com/dtroode/certledger/internal/model"
)

type certificateRecord struct {
	SchemaVersion       int    `json:"schemaVersion"`
	ID                  string `json:"id"`
	StudentID           string `json:"studentId"`
	InstructorID        string `json:"instructorId"`
	CourseID            string `json:"courseId"`
	CompletionTimestamp string `json:"completionTimestamp"`
	DurationUnits       int    `json:"durationUnits"`
}

// EncodeCertificate serializes a certificate into its stored form. The
// completion timestamp is written in UTC.
func EncodeCertificate(certificate model.Certificate) ([]byte, error) {
	return json.Marshal(certificateRecord{
		SchemaVersion:       SchemaVersion,
		ID:                  certificate.ID,
		StudentID:           certificate.StudentID,
		InstructorID:        certificate.InstructorID,
		CourseID:            certificate.CourseID,
		CompletionTimestamp: encodeTime(certificate.CompletionTimestamp),
		DurationUnits:       certificate.DurationUnits,
	})
}

// DecodeCertificate parses a stored certificate.
func DecodeCertificate(data []byte) (model.Certificate, error) {
	var rec certificateRecord
	if err := unmarshalStrict(data, &rec); err != nil {
		return model.Certificate{}, fmt.Errorf("failed to decode certificate: %w", err)
	}
	if err := checkVersion(rec.SchemaVersion); err != nil {
		return model.Certificate{}, fmt.Errorf("certificate %s: %w", rec.ID, err)
	}

	completedAt, err := decodeTime(rec.CompletionTimestamp)
	if err != nil {
		return model.Certificate{}, fmt.Errorf("certificate %s: %w", rec.ID, err)
	}

	return model.Certificate{
		ID:                  rec.ID,
		StudentID:           rec.StudentID,
		InstructorID:        rec.InstructorID,
		CourseID:            rec.CourseID,
		CompletionTimestamp: completedAt,
		DurationUnits:       rec.DurationUnits,
	}, nil
}
