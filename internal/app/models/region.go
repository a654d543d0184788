package models

import (
	"fmt"
	"slices"
)

// Region represents a region. Titles are unique across all regions; a
// teacher belongs to at most one region.
type Region struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title" validate:"notblank"`
	TeacherIDs []int64 `json:"teacher_ids,omitempty"`
}

// AddTeacher moves t into the region, setting its back-reference
func (r *Region) AddTeacher(t *Teacher) {
	if t == nil {
		return
	}
	r.TeacherIDs = appendID(r.TeacherIDs, t.ID)
	regionID := r.ID
	t.RegionID = &regionID
}

// RemoveTeacher drops t from the region. The back-reference is cleared only
// if it still points at this region.
func (r *Region) RemoveTeacher(t *Teacher) {
	if t == nil {
		return
	}
	r.TeacherIDs = removeID(r.TeacherIDs, t.ID)
	if t.InRegion(r.ID) {
		t.RegionID = nil
	}
}

// HasTeacher reports whether the teacher belongs to the region
func (r *Region) HasTeacher(teacherID int64) bool {
	return slices.Contains(r.TeacherIDs, teacherID)
}

func (r *Region) String() string {
	return fmt.Sprintf("%d %s", r.ID, r.Title)
}
