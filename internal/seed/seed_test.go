package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/schooladmin/internal/app/models"
	appServices "github.com/yigit/schooladmin/internal/app/services"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
)

// titleSet stands in for the unique title constraint
type titleSet struct {
	titles map[string]int64
	fail   string
}

func (s *titleSet) add(title string) (int64, error) {
	if title == s.fail {
		return 0, apperrors.Wrap(errors.New("connection refused"), "error creating")
	}
	if _, ok := s.titles[title]; ok {
		return 0, apperrors.Wrap(apperrors.NewConflictError(fmt.Sprintf("title '%s' already exists", title)), "error creating")
	}
	id := int64(len(s.titles) + 1)
	s.titles[title] = id
	return id, nil
}

type stubRegions struct {
	appServices.RegionService
	set titleSet
}

func (s *stubRegions) CreateRegion(_ context.Context, r *appModels.Region) (*appModels.Region, error) {
	id, err := s.set.add(r.Title)
	if err != nil {
		return nil, err
	}
	r.ID = id
	return r, nil
}

type stubCourses struct {
	appServices.CourseService
	set titleSet
}

func (s *stubCourses) CreateCourse(_ context.Context, c *appModels.Course) (*appModels.Course, error) {
	id, err := s.set.add(c.Title)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

func newStubs() (*stubRegions, *stubCourses) {
	return &stubRegions{set: titleSet{titles: map[string]int64{}}},
		&stubCourses{set: titleSet{titles: map[string]int64{}}}
}

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	regions, courses := newStubs()

	require.NoError(t, CreateDefaultData(context.Background(), regions, courses, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(context.Background(), regions, courses, zerolog.Nop()))

	assert.Len(t, regions.set.titles, len(DefaultRegions))
	assert.Len(t, courses.set.titles, len(DefaultCourses))
	assert.Contains(t, regions.set.titles, "Attica")
}

func TestCreateDefaultDataCollectsFailures(t *testing.T) {
	regions, courses := newStubs()
	regions.set.fail = "Crete"
	courses.set.fail = "Physics"

	err := CreateDefaultData(context.Background(), regions, courses, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Len(t, regions.set.titles, len(DefaultRegions)-1)
	assert.Len(t, courses.set.titles, len(DefaultCourses)-1)
}
