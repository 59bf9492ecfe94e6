package codec

import (
	"encoding/json"
	"fmt"

	"github.com/dtroode/certledger/internal/model"
)

type courseRecord struct {
	SchemaVersion      int    `json:"schemaVersion"`
	ID                 string `json:"id"`
	Name               string `json:"name"`
	DurationUnits      int    `json:"durationUnits"`
	InstructorID       string `json:"instructorId"`
	EnrolledStudentIDs string `json:"enrolledStudentIds"`
}

// EncodeCourse serializes a course into its stored form. Enrollment order
// is preserved.
func EncodeCourse(course model.Course) ([]byte, error) {
	students, err := encodeList(course.EnrolledStudentIDs)
	if err != nil {
		return nil, fmt.Errorf("course %s: %w", course.ID, err)
	}

	return json.Marshal(courseRecord{
		SchemaVersion:      SchemaVersion,
		ID:                 course.ID,
		Name:               course.Name,
		DurationUnits:      course.DurationUnits,
		InstructorID:       course.InstructorID,
		EnrolledStudentIDs: students,
	})
}

// DecodeCourse parses a stored course.
func DecodeCourse(data []byte) (model.Course, error) {
	var rec courseRecord
	if err := unmarshalStrict(data, &rec); err != nil {
		return model.Course{}, fmt.Errorf("failed to decode course: %w", err)
	}
	if err := checkVersion(rec.SchemaVersion); err != nil {
		return model.Course{}, fmt.Errorf("course %s: %w", rec.ID, err)
	}

	students, err := decodeList(rec.EnrolledStudentIDs)
	if err != nil {
		return model.Course{}, fmt.Errorf("course %s: %w", rec.ID, err)
	}

	return model.Course{
		ID:                 rec.ID,
		Name:               rec.Name,
		DurationUnits:      rec.DurationUnits,
		InstructorID:       rec.InstructorID,
		EnrolledStudentIDs: students,
	}, nil
}
