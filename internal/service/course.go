package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/dtroode/certledger/internal/codec"
	"github.com/dtroode/certledger/internal/logger"
	"github.com/dtroode/certledger/internal/model"
)

// AccountChecker reports whether an account exists.
type AccountChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Course is the course registry. It also owns each course's enrollment
// roster.
type Course struct {
	store    model.Store
	accounts AccountChecker
	logger   *logger.Logger
}

func NewCourse(store model.Store, accounts AccountChecker, logger *logger.Logger) *Course {
	return &Course{
		store:    store,
		accounts: accounts,
		logger:   logger,
	}
}

func (s *Course) Exists(ctx context.Context, id string) (bool, error) {
	return stateExists(ctx, s.store, model.KindCourse, id)
}

// Create stores a new course. The instructor must be an existing account.
func (s *Course) Create(ctx context.Context, course model.Course) error {
	if err := requireID(model.KindCourse, course.ID); err != nil {
		return err
	}
	if course.DurationUnits <= 0 {
		return model.NewErrInvalidArgument("course %s duration must be positive", course.ID)
	}
	if len(course.EnrolledStudentIDs) > 0 {
		return model.NewErrInvalidArgument("enrolledStudentIds are written by EnrollStudent")
	}

	exists, err := s.Exists(ctx, course.ID)
	if err != nil {
		return err
	}
	if exists {
		return model.NewErrAlreadyExists(model.KindCourse, course.ID)
	}

	if err := s.requireAccount(ctx, model.FieldInstructor, course.InstructorID); err != nil {
		return err
	}

	if err := s.save(ctx, course); err != nil {
		return err
	}

	s.logger.Debug("course created", "course_id", course.ID, "instructor_id", course.InstructorID)
	return nil
}

func (s *Course) Read(ctx context.Context, id string) (model.Course, error) {
	data, err := getState(ctx, s.store, model.KindCourse, id)
	if err != nil {
		return model.Course{}, err
	}
	if data == nil {
		return model.Course{}, model.NewErrNotFound(model.KindCourse, id)
	}

	course, err := codec.DecodeCourse(data)
	if err != nil {
		return model.Course{}, fmt.Errorf("failed to read course %s: %w", id, err)
	}
	return course, nil
}

// Update merges the patch over the stored course. A new instructor must be
// an existing account.
func (s *Course) Update(ctx context.Context, patch model.CoursePatch) (model.Course, error) {
	if patch.DurationUnits != nil && *patch.DurationUnits <= 0 {
		return model.Course{}, model.NewErrInvalidArgument("course %s duration must be positive", patch.ID)
	}

	existing, err := s.Read(ctx, patch.ID)
	if err != nil {
		return model.Course{}, err
	}

	if patch.InstructorID != nil {
		if err := s.requireAccount(ctx, model.FieldInstructor, *patch.InstructorID); err != nil {
			return model.Course{}, err
		}
	}

	updated := patch.Apply(existing)
	if err := s.save(ctx, updated); err != nil {
		return model.Course{}, err
	}

	return updated, nil
}

// Delete removes the course. Certificates issued for it are kept.
func (s *Course) Delete(ctx context.Context, id string) error {
	if err := deleteState(ctx, s.store, model.KindCourse, id); err != nil {
		return err
	}

	s.logger.Debug("course deleted", "course_id", id)
	return nil
}

// Enroll adds an existing student account to the course roster.
func (s *Course) Enroll(ctx context.Context, courseID, studentID string) error {
	exists, err := s.Exists(ctx, courseID)
	if err != nil {
		return err
	}
	if !exists {
		return model.NewErrNotFound(model.KindCourse, courseID)
	}

	studentExists, err := s.accounts.Exists(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to check student %s: %w", studentID, err)
	}
	if !studentExists {
		return model.NewErrNotFound(model.KindAccount, studentID)
	}

	course, err := s.Read(ctx, courseID)
	if err != nil {
		return err
	}

	if slices.Contains(course.EnrolledStudentIDs, studentID) {
		return model.NewErrAlreadyEnrolled(studentID, courseID)
	}

	course.EnrolledStudentIDs = append(course.EnrolledStudentIDs, studentID)
	if err := s.save(ctx, course); err != nil {
		return err
	}

	s.logger.Debug("student enrolled", "course_id", courseID, "student_id", studentID)
	return nil
}

// Disenroll removes a student from the course roster. The student account
// does not need to exist any more.
func (s *Course) Disenroll(ctx context.Context, courseID, studentID string) error {
	exists, err := s.Exists(ctx, courseID)
	if err != nil {
		return err
	}
	if !exists {
		return model.NewErrNotFound(model.KindCourse, courseID)
	}

	course, err := s.Read(ctx, courseID)
	if err != nil {
		return err
	}

	// slices.Index reports absence as -1; position 0 is a valid match.
	position := slices.Index(course.EnrolledStudentIDs, studentID)
	if position == -1 {
		return model.NewErrNotEnrolled(studentID, courseID)
	}

	course.EnrolledStudentIDs = slices.Delete(course.EnrolledStudentIDs, position, position+1)
	if err := s.save(ctx, course); err != nil {
		return err
	}

	s.logger.Debug("student disenrolled", "course_id", courseID, "student_id", studentID)
	return nil
}

func (s *Course) requireAccount(ctx context.Context, field, id string) error {
	if id == "" {
		return model.NewErrInvalidReference(field, id)
	}
	exists, err := s.accounts.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check %s %s: %w", field, id, err)
	}
	if !exists {
		return model.NewErrInvalidReference(field, id)
	}
	return nil
}

func (s *Course) save(ctx context.Context, course model.Course) error {
	data, err := codec.EncodeCourse(course)
	if err != nil {
		return fmt.Errorf("failed to encode course: %w", err)
	}
	return putState(ctx, s.store, model.KindCourse, course.ID, data)
}
