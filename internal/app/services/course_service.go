package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/logger"
	"github.com/yigit/schooladmin/internal/pkg/validation"
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]*models.Course, error)
	GetCourseByTitle(ctx context.Context, title string) (*models.Course, error)
	AddTeacherToCourse(ctx context.Context, courseID, teacherID int64) (*models.Course, error)
	RemoveTeacherFromCourse(ctx context.Context, courseID, teacherID int64) (*models.Course, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseStore  CourseStore
	teacherStore TeacherStore
}

// NewCourseService creates a new course service instance
func NewCourseService(courseStore CourseStore, teacherStore TeacherStore) CourseService {
	return &courseServiceImpl{
		courseStore:  courseStore,
		teacherStore: teacherStore,
	}
}

func (s *courseServiceImpl) validateCourse(course *models.Course) error {
	if course == nil {
		return apperrors.NewValidationError("Course cannot be null")
	}
	return validation.Struct("Course", course)
}

// CreateCourse stores a new course after rejecting duplicate titles
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	created, err := s.createCourse(ctx, course)
	if err != nil {
		logger.Warn().Err(err).Msg("Course creation failed")
		return nil, apperrors.Wrap(err, "error creating course")
	}
	logger.Debug().Int64("courseID", created.ID).Str("title", created.Title).Msg("Course created")
	return created, nil
}

func (s *courseServiceImpl) createCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	if err := s.validateCourse(course); err != nil {
		return nil, err
	}

	// Fast path only; the unique constraint on courses.title still decides
	// concurrent inserts and surfaces as the same conflict kind.
	existing, err := s.courseStore.GetByTitle(ctx, course.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("Course with title '%s' already exists", course.Title))
	}

	return s.courseStore.Insert(ctx, course)
}

// UpdateCourse merges the course's state into the store
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	updated, err := s.updateCourse(ctx, course)
	if err != nil {
		logger.Warn().Err(err).Msg("Course update failed")
		return nil, apperrors.Wrap(err, "error updating course")
	}
	logger.Debug().Int64("courseID", updated.ID).Msg("Course updated")
	return updated, nil
}

func (s *courseServiceImpl) updateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	if err := s.validateCourse(course); err != nil {
		return nil, err
	}
	if course.ID <= 0 {
		return nil, apperrors.NewValidationError("Course ID cannot be null for update")
	}
	return s.courseStore.Update(ctx, course)
}

// DeleteCourse removes a course; unknown ids are ignored
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.Wrap(apperrors.NewValidationError("Course ID cannot be null"), "error deleting course")
	}
	if err := s.courseStore.Delete(ctx, id); err != nil {
		logger.Warn().Err(err).Int64("courseID", id).Msg("Course deletion failed")
		return apperrors.Wrap(err, "error deleting course")
	}
	logger.Debug().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// GetCourseByID returns the course or nil when id is unset or unknown
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	if id <= 0 {
		return nil, nil
	}
	return s.courseStore.GetByID(ctx, id)
}

// GetAllCourses retrieves all courses
func (s *courseServiceImpl) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courseStore.GetAll(ctx)
}

// GetCourseByTitle returns the course with this exact title, or nil
func (s *courseServiceImpl) GetCourseByTitle(ctx context.Context, title string) (*models.Course, error) {
	if validation.IsBlank(title) {
		return nil, nil
	}
	return s.courseStore.GetByTitle(ctx, title)
}

// AddTeacherToCourse assigns an existing teacher to an existing course
func (s *courseServiceImpl) AddTeacherToCourse(ctx context.Context, courseID, teacherID int64) (*models.Course, error) {
	lgr := courseTeacherLogger(courseID, teacherID)
	course, err := s.changeTeacher(ctx, courseID, teacherID, s.courseStore.AddTeacher, (*models.Course).AddTeacher)
	if err != nil {
		lgr.Warn().Err(err).Msg("Adding teacher to course failed")
		return nil, apperrors.Wrap(err, "error adding teacher to course")
	}
	lgr.Debug().Msg("Teacher added to course")
	return course, nil
}

// RemoveTeacherFromCourse drops the assignment of a teacher to a course
func (s *courseServiceImpl) RemoveTeacherFromCourse(ctx context.Context, courseID, teacherID int64) (*models.Course, error) {
	lgr := courseTeacherLogger(courseID, teacherID)
	course, err := s.changeTeacher(ctx, courseID, teacherID, s.courseStore.RemoveTeacher, (*models.Course).RemoveTeacher)
	if err != nil {
		lgr.Warn().Err(err).Msg("Removing teacher from course failed")
		return nil, apperrors.Wrap(err, "error removing teacher from course")
	}
	lgr.Debug().Msg("Teacher removed from course")
	return course, nil
}

func courseTeacherLogger(courseID, teacherID int64) zerolog.Logger {
	return logger.WithFields(map[string]interface{}{
		"courseID":  courseID,
		"teacherID": teacherID,
	})
}

// changeTeacher checks that both records exist, then persists the single
// course_teachers row through persist. The returned course is the loaded one
// with change applied, so unrelated assignments written meanwhile are never
// rewritten from it.
func (s *courseServiceImpl) changeTeacher(
	ctx context.Context,
	courseID, teacherID int64,
	persist func(ctx context.Context, courseID, teacherID int64) error,
	change func(*models.Course, *models.Teacher),
) (*models.Course, error) {
	if courseID <= 0 || teacherID <= 0 {
		return nil, apperrors.NewValidationError("Course ID and Teacher ID cannot be null")
	}

	course, err := s.courseStore.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("Course with ID %d not found", courseID))
	}

	teacher, err := s.teacherStore.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("Teacher with ID %d not found", teacherID))
	}

	if err := persist(ctx, courseID, teacherID); err != nil {
		return nil, err
	}

	change(course, teacher)
	return course, nil
}
