package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/schooladmin/internal/app/models"
	appServices "github.com/yigit/schooladmin/internal/app/services"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
)

// DefaultRegions are created on first start when seeding is enabled
var DefaultRegions = []string{"Attica", "Central Macedonia", "Crete"}

// DefaultCourses are created on first start when seeding is enabled
var DefaultCourses = []string{"Mathematics", "Physics", "History", "Literature"}

// CreateDefaultData creates the default regions and courses if they don't exist.
// Existing titles are skipped; other failures are collected and returned
// after every item was attempted.
func CreateDefaultData(ctx context.Context, regions appServices.RegionService, courses appServices.CourseService, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Regions/Courses)...")
	var finalErr error

	for _, title := range DefaultRegions {
		region, err := regions.CreateRegion(ctx, &appModels.Region{Title: title})
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			lgr.Debug().Str("title", title).Msg("Region already exists, skipping creation")
		case err != nil:
			lgr.Error().Err(err).Str("title", title).Msg("Error creating default region")
			finalErr = errors.Join(finalErr, err)
		default:
			lgr.Info().Int64("regionID", region.ID).Str("title", title).Msg("Default region created")
		}
	}

	for _, title := range DefaultCourses {
		course, err := courses.CreateCourse(ctx, &appModels.Course{Title: title})
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			lgr.Debug().Str("title", title).Msg("Course already exists, skipping creation")
		case err != nil:
			lgr.Error().Err(err).Str("title", title).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
		default:
			lgr.Info().Int64("courseID", course.ID).Str("title", title).Msg("Default course created")
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
