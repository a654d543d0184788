package models

import (
	"fmt"
	"slices"
)

// Course represents a course. Titles are unique across all courses.
type Course struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title" validate:"notblank"`
	TeacherIDs []int64 `json:"teacher_ids,omitempty"`
}

// AddTeacher assigns t to the course on both sides of the association
func (c *Course) AddTeacher(t *Teacher) {
	if t == nil {
		return
	}
	c.TeacherIDs = appendID(c.TeacherIDs, t.ID)
	t.CourseIDs = appendID(t.CourseIDs, c.ID)
}

// RemoveTeacher reverses AddTeacher. Removing a teacher that is not
// assigned is a no-op.
func (c *Course) RemoveTeacher(t *Teacher) {
	if t == nil {
		return
	}
	c.TeacherIDs = removeID(c.TeacherIDs, t.ID)
	t.CourseIDs = removeID(t.CourseIDs, c.ID)
}

// HasTeacher reports whether the teacher is assigned to the course
func (c *Course) HasTeacher(teacherID int64) bool {
	return slices.Contains(c.TeacherIDs, teacherID)
}

func (c *Course) String() string {
	return fmt.Sprintf("%d %s", c.ID, c.Title)
}
