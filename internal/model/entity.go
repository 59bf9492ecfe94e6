package model

import "time"

// EntityKind names a record type and its keyspace in the ledger.
type EntityKind string

const (
	KindAccount     EntityKind = "account"
	KindCourse      EntityKind = "course"
	KindCertificate EntityKind = "certificate"
)

// Key returns the ledger key of the entity with the given id. Accounts,
// courses and certificates share one flat keyspace, so every key carries
// its kind as a prefix.
func (k EntityKind) Key(id string) string {
	return string(k) + ":" + id
}

// Account is a person that can teach courses and hold certificates.
type Account struct {
	ID             string   `json:"id" validate:"required"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	PublicKey      string   `json:"publicKey"`
	CertificateIDs []string `json:"certificateIds"`
}

// AccountPatch carries a shallow update. Nil fields are left untouched.
type AccountPatch struct {
	ID             string    `json:"id" validate:"required"`
	Name           *string   `json:"name,omitempty"`
	Email          *string   `json:"email,omitempty"`
	PublicKey      *string   `json:"publicKey,omitempty"`
	CertificateIDs *[]string `json:"certificateIds,omitempty"`
}

// Apply returns a copy of account with the patch fields written over it.
func (p AccountPatch) Apply(account Account) Account {
	if p.Name != nil {
		account.Name = *p.Name
	}
	if p.Email != nil {
		account.Email = *p.Email
	}
	if p.PublicKey != nil {
		account.PublicKey = *p.PublicKey
	}
	if p.CertificateIDs != nil {
		account.CertificateIDs = append([]string(nil), (*p.CertificateIDs)...)
	}
	return account
}

// Course is taught by an instructor account and tracks enrolled students.
type Course struct {
	ID                 string   `json:"id" validate:"required"`
	Name               string   `json:"name"`
	DurationUnits      int      `json:"durationUnits" validate:"gt=0"`
	InstructorID       string   `json:"instructorId" validate:"required"`
	EnrolledStudentIDs []string `json:"enrolledStudentIds"`
}

// CoursePatch carries a shallow update of course attributes. Enrollment
// is changed only through enroll and disenroll.
type CoursePatch struct {
	ID            string  `json:"id" validate:"required"`
	Name          *string `json:"name,omitempty"`
	DurationUnits *int    `json:"durationUnits,omitempty" validate:"omitempty,gt=0"`
	InstructorID  *string `json:"instructorId,omitempty" validate:"omitempty,min=1"`
}

// Apply returns a copy of course with the patch fields written over it.
func (p CoursePatch) Apply(course Course) Course {
	if p.Name != nil {
		course.Name = *p.Name
	}
	if p.DurationUnits != nil {
		course.DurationUnits = *p.DurationUnits
	}
	if p.InstructorID != nil {
		course.InstructorID = *p.InstructorID
	}
	return course
}

// Certificate attests that a student completed a course. It is immutable
// once written.
type Certificate struct {
	ID                  string    `json:"id"`
	StudentID           string    `json:"studentId"`
	InstructorID        string    `json:"instructorId"`
	CourseID            string    `json:"courseId"`
	CompletionTimestamp time.Time `json:"completionTimestamp"`
	DurationUnits       int       `json:"durationUnits"`
}
