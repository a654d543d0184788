package services

import (
	"context"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/repositories"
)

// Services defined in this package:
// - TeacherService: teacher lifecycle and lookups by lastname / active flag
// - CourseService: course lifecycle, lookup by title, teacher assignment
// - RegionService: region lifecycle, lookup by title, teacher membership
//
// Services never call each other. Each one depends on its own store plus the
// teacher store for association operations.

// TeacherStore is the persistence surface TeacherService needs
type TeacherStore interface {
	Insert(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error)
	Update(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Teacher, error)
	GetAll(ctx context.Context) ([]*models.Teacher, error)
	GetByLastname(ctx context.Context, lastname string) ([]*models.Teacher, error)
	GetActiveTeachers(ctx context.Context) ([]*models.Teacher, error)
}

// CourseStore is the persistence surface CourseService needs
type CourseStore interface {
	Insert(ctx context.Context, course *models.Course) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByTitle(ctx context.Context, title string) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	AddTeacher(ctx context.Context, courseID, teacherID int64) error
	RemoveTeacher(ctx context.Context, courseID, teacherID int64) error
}

// RegionStore is the persistence surface RegionService needs
type RegionStore interface {
	Insert(ctx context.Context, region *models.Region) (*models.Region, error)
	Update(ctx context.Context, region *models.Region) (*models.Region, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Region, error)
	GetByTitle(ctx context.Context, title string) (*models.Region, error)
	GetAll(ctx context.Context) ([]*models.Region, error)
	AddTeacher(ctx context.Context, regionID, teacherID int64) error
	RemoveTeacher(ctx context.Context, regionID, teacherID int64) error
}

var (
	_ TeacherStore = (*repositories.TeacherRepository)(nil)
	_ CourseStore  = (*repositories.CourseRepository)(nil)
	_ RegionStore  = (*repositories.RegionRepository)(nil)
)

// Services groups the application services
type Services struct {
	TeacherService TeacherService
	CourseService  CourseService
	RegionService  RegionService
}

// NewServices wires the services on top of the repositories
func NewServices(repos *repositories.Repositories) *Services {
	return &Services{
		TeacherService: NewTeacherService(repos.TeacherRepository),
		CourseService:  NewCourseService(repos.CourseRepository, repos.TeacherRepository),
		RegionService:  NewRegionService(repos.RegionRepository, repos.TeacherRepository),
	}
}
