package services

import (
	"context"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/logger"
	"github.com/yigit/schooladmin/internal/pkg/validation"
)

// TeacherService defines the interface for teacher-related operations
type TeacherService interface {
	CreateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error)
	UpdateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error)
	DeleteTeacher(ctx context.Context, id int64) error
	GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error)
	GetAllTeachers(ctx context.Context) ([]*models.Teacher, error)
	GetTeachersByLastname(ctx context.Context, lastname string) ([]*models.Teacher, error)
	GetActiveTeachers(ctx context.Context) ([]*models.Teacher, error)
}

// teacherServiceImpl implements the TeacherService interface
type teacherServiceImpl struct {
	teacherStore TeacherStore
}

// NewTeacherService creates a new teacher service instance
func NewTeacherService(teacherStore TeacherStore) TeacherService {
	return &teacherServiceImpl{
		teacherStore: teacherStore,
	}
}

// validateTeacher checks the teacher's required fields
func (s *teacherServiceImpl) validateTeacher(teacher *models.Teacher) error {
	if teacher == nil {
		return apperrors.NewValidationError("Teacher cannot be null")
	}
	return validation.Struct("Teacher", teacher)
}

// CreateTeacher validates and stores a new teacher
func (s *teacherServiceImpl) CreateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	created, err := s.createTeacher(ctx, teacher)
	if err != nil {
		logger.Warn().Err(err).Msg("Teacher creation failed")
		return nil, apperrors.Wrap(err, "error creating teacher")
	}
	logger.Debug().Int64("teacherID", created.ID).Msg("Teacher created")
	return created, nil
}

func (s *teacherServiceImpl) createTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	if err := s.validateTeacher(teacher); err != nil {
		return nil, err
	}
	return s.teacherStore.Insert(ctx, teacher)
}

// UpdateTeacher merges the teacher's state into the store
func (s *teacherServiceImpl) UpdateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	updated, err := s.updateTeacher(ctx, teacher)
	if err != nil {
		logger.Warn().Err(err).Msg("Teacher update failed")
		return nil, apperrors.Wrap(err, "error updating teacher")
	}
	logger.Debug().Int64("teacherID", updated.ID).Msg("Teacher updated")
	return updated, nil
}

func (s *teacherServiceImpl) updateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	if err := s.validateTeacher(teacher); err != nil {
		return nil, err
	}
	if teacher.ID <= 0 {
		return nil, apperrors.NewValidationError("Teacher ID cannot be null for update")
	}
	return s.teacherStore.Update(ctx, teacher)
}

// DeleteTeacher removes a teacher; unknown ids are ignored
func (s *teacherServiceImpl) DeleteTeacher(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.Wrap(apperrors.NewValidationError("Teacher ID cannot be null"), "error deleting teacher")
	}
	if err := s.teacherStore.Delete(ctx, id); err != nil {
		logger.Warn().Err(err).Int64("teacherID", id).Msg("Teacher deletion failed")
		return apperrors.Wrap(err, "error deleting teacher")
	}
	logger.Debug().Int64("teacherID", id).Msg("Teacher deleted")
	return nil
}

// GetTeacherByID returns the teacher or nil when id is unset or unknown
func (s *teacherServiceImpl) GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error) {
	if id <= 0 {
		return nil, nil
	}
	return s.teacherStore.GetByID(ctx, id)
}

// GetAllTeachers retrieves all teachers
func (s *teacherServiceImpl) GetAllTeachers(ctx context.Context) ([]*models.Teacher, error) {
	return s.teacherStore.GetAll(ctx)
}

// GetTeachersByLastname retrieves teachers by exact lastname
func (s *teacherServiceImpl) GetTeachersByLastname(ctx context.Context, lastname string) ([]*models.Teacher, error) {
	if validation.IsBlank(lastname) {
		return nil, apperrors.NewValidationError("Lastname cannot be null or empty")
	}
	return s.teacherStore.GetByLastname(ctx, lastname)
}

// GetActiveTeachers retrieves teachers whose active flag is set
func (s *teacherServiceImpl) GetActiveTeachers(ctx context.Context) ([]*models.Teacher, error) {
	return s.teacherStore.GetActiveTeachers(ctx)
}
