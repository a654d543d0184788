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

// RegionService defines the interface for region-related operations
type RegionService interface {
	CreateRegion(ctx context.Context, region *models.Region) (*models.Region, error)
	UpdateRegion(ctx context.Context, region *models.Region) (*models.Region, error)
	DeleteRegion(ctx context.Context, id int64) error
	GetRegionByID(ctx context.Context, id int64) (*models.Region, error)
	GetAllRegions(ctx context.Context) ([]*models.Region, error)
	GetRegionByTitle(ctx context.Context, title string) (*models.Region, error)
	AddTeacherToRegion(ctx context.Context, regionID, teacherID int64) (*models.Region, error)
	RemoveTeacherFromRegion(ctx context.Context, regionID, teacherID int64) (*models.Region, error)
}

type regionServiceImpl struct {
	regionStore  RegionStore
	teacherStore TeacherStore
}

// NewRegionService creates a new region service instance
func NewRegionService(regionStore RegionStore, teacherStore TeacherStore) RegionService {
	return &regionServiceImpl{
		regionStore:  regionStore,
		teacherStore: teacherStore,
	}
}

func (s *regionServiceImpl) validateRegion(region *models.Region) error {
	if region == nil {
		return apperrors.NewValidationError("Region cannot be null")
	}
	return validation.Struct("Region", region)
}

// CreateRegion stores a new region after rejecting duplicate titles
func (s *regionServiceImpl) CreateRegion(ctx context.Context, region *models.Region) (*models.Region, error) {
	created, err := s.createRegion(ctx, region)
	if err != nil {
		logger.Warn().Err(err).Msg("Region creation failed")
		return nil, apperrors.Wrap(err, "error creating region")
	}
	logger.Debug().Int64("regionID", created.ID).Str("title", created.Title).Msg("Region created")
	return created, nil
}

func (s *regionServiceImpl) createRegion(ctx context.Context, region *models.Region) (*models.Region, error) {
	if err := s.validateRegion(region); err != nil {
		return nil, err
	}

	existing, err := s.regionStore.GetByTitle(ctx, region.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("Region with title '%s' already exists", region.Title))
	}

	return s.regionStore.Insert(ctx, region)
}

// UpdateRegion merges the region's state into the store
func (s *regionServiceImpl) UpdateRegion(ctx context.Context, region *models.Region) (*models.Region, error) {
	updated, err := s.updateRegion(ctx, region)
	if err != nil {
		logger.Warn().Err(err).Msg("Region update failed")
		return nil, apperrors.Wrap(err, "error updating region")
	}
	logger.Debug().Int64("regionID", updated.ID).Msg("Region updated")
	return updated, nil
}

func (s *regionServiceImpl) updateRegion(ctx context.Context, region *models.Region) (*models.Region, error) {
	if err := s.validateRegion(region); err != nil {
		return nil, err
	}
	if region.ID <= 0 {
		return nil, apperrors.NewValidationError("Region ID cannot be null for update")
	}
	return s.regionStore.Update(ctx, region)
}

// DeleteRegion removes a region; its teachers stay without a region
func (s *regionServiceImpl) DeleteRegion(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.Wrap(apperrors.NewValidationError("Region ID cannot be null"), "error deleting region")
	}
	if err := s.regionStore.Delete(ctx, id); err != nil {
		logger.Warn().Err(err).Int64("regionID", id).Msg("Region deletion failed")
		return apperrors.Wrap(err, "error deleting region")
	}
	logger.Debug().Int64("regionID", id).Msg("Region deleted")
	return nil
}

func (s *regionServiceImpl) GetRegionByID(ctx context.Context, id int64) (*models.Region, error) {
	if id <= 0 {
		return nil, nil
	}
	return s.regionStore.GetByID(ctx, id)
}

func (s *regionServiceImpl) GetAllRegions(ctx context.Context) ([]*models.Region, error) {
	return s.regionStore.GetAll(ctx)
}

func (s *regionServiceImpl) GetRegionByTitle(ctx context.Context, title string) (*models.Region, error) {
	if validation.IsBlank(title) {
		return nil, nil
	}
	return s.regionStore.GetByTitle(ctx, title)
}

// AddTeacherToRegion moves an existing teacher into an existing region
func (s *regionServiceImpl) AddTeacherToRegion(ctx context.Context, regionID, teacherID int64) (*models.Region, error) {
	lgr := regionTeacherLogger(regionID, teacherID)
	region, err := s.changeTeacher(ctx, regionID, teacherID, s.regionStore.AddTeacher, (*models.Region).AddTeacher)
	if err != nil {
		lgr.Warn().Err(err).Msg("Adding teacher to region failed")
		return nil, apperrors.Wrap(err, "error adding teacher to region")
	}
	lgr.Debug().Msg("Teacher added to region")
	return region, nil
}

// RemoveTeacherFromRegion takes a teacher out of a region
func (s *regionServiceImpl) RemoveTeacherFromRegion(ctx context.Context, regionID, teacherID int64) (*models.Region, error) {
	lgr := regionTeacherLogger(regionID, teacherID)
	region, err := s.changeTeacher(ctx, regionID, teacherID, s.regionStore.RemoveTeacher, (*models.Region).RemoveTeacher)
	if err != nil {
		lgr.Warn().Err(err).Msg("Removing teacher from region failed")
		return nil, apperrors.Wrap(err, "error removing teacher from region")
	}
	lgr.Debug().Msg("Teacher removed from region")
	return region, nil
}

func regionTeacherLogger(regionID, teacherID int64) zerolog.Logger {
	return logger.WithFields(map[string]interface{}{
		"regionID":  regionID,
		"teacherID": teacherID,
	})
}

// changeTeacher checks that both records exist and writes only the teacher's
// region_id through persist; other members of the region are left alone.
func (s *regionServiceImpl) changeTeacher(
	ctx context.Context,
	regionID, teacherID int64,
	persist func(ctx context.Context, regionID, teacherID int64) error,
	change func(*models.Region, *models.Teacher),
) (*models.Region, error) {
	if regionID <= 0 || teacherID <= 0 {
		return nil, apperrors.NewValidationError("Region ID and Teacher ID cannot be null")
	}

	region, err := s.regionStore.GetByID(ctx, regionID)
	if err != nil {
		return nil, err
	}
	if region == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("Region with ID %d not found", regionID))
	}

	teacher, err := s.teacherStore.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("Teacher with ID %d not found", teacherID))
	}

	if err := persist(ctx, regionID, teacherID); err != nil {
		return nil, err
	}

	change(region, teacher)
	return region, nil
}
