package models

import (
	"fmt"
	"slices"
)

// Teacher represents a teacher. RegionID and CourseIDs mirror the
// associations owned by Region and Course; use their AddTeacher and
// RemoveTeacher helpers to keep both sides in step.
type Teacher struct {
	ID        int64   `json:"id"`
	Firstname string  `json:"firstname" validate:"notblank"`
	Lastname  string  `json:"lastname" validate:"notblank"`
	Active    bool    `json:"active"`
	RegionID  *int64  `json:"region_id,omitempty"`
	CourseIDs []int64 `json:"course_ids,omitempty"`
}

// HasCourse reports whether the teacher is assigned to the course
func (t *Teacher) HasCourse(courseID int64) bool {
	return slices.Contains(t.CourseIDs, courseID)
}

// InRegion reports whether the teacher belongs to the region
func (t *Teacher) InRegion(regionID int64) bool {
	return t.RegionID != nil && *t.RegionID == regionID
}

func (t *Teacher) String() string {
	return fmt.Sprintf("%d %s %s", t.ID, t.Firstname, t.Lastname)
}
