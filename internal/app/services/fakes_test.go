package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
)

// memDB keeps rows the way the postgres schema does: course and region
// titles are unique, course_teachers holds edges and teachers carry
// region_id. The three fake stores share one memDB.
type memDB struct {
	mu       sync.Mutex
	nextID   int64
	teachers map[int64]models.Teacher
	courses  map[int64]string
	regions  map[int64]string
	edges    map[[2]int64]bool // {courseID, teacherID}

	writes  int
	reads   int
	failErr error
}

func newMemDB() *memDB {
	return &memDB{
		teachers: map[int64]models.Teacher{},
		courses:  map[int64]string{},
		regions:  map[int64]string{},
		edges:    map[[2]int64]bool{},
	}
}

func (m *memDB) stores() (*fakeTeacherStore, *fakeCourseStore, *fakeRegionStore) {
	return &fakeTeacherStore{m}, &fakeCourseStore{m}, &fakeRegionStore{m}
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memDB) write() error {
	if m.failErr != nil {
		return m.failErr
	}
	m.writes++
	return nil
}

func (m *memDB) read() error {
	if m.failErr != nil {
		return m.failErr
	}
	m.reads++
	return nil
}

func (m *memDB) courseTeacherIDs(courseID int64) []int64 {
	ids := []int64{}
	for e := range m.edges {
		if e[0] == courseID {
			ids = append(ids, e[1])
		}
	}
	slices.Sort(ids)
	return ids
}

func (m *memDB) teacherCourseIDs(teacherID int64) []int64 {
	ids := []int64{}
	for e := range m.edges {
		if e[1] == teacherID {
			ids = append(ids, e[0])
		}
	}
	slices.Sort(ids)
	return ids
}

func (m *memDB) regionTeacherIDs(regionID int64) []int64 {
	ids := []int64{}
	for id, t := range m.teachers {
		if t.InRegion(regionID) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (m *memDB) titleTaken(titles map[int64]string, title string, except int64) bool {
	for id, t := range titles {
		if t == title && id != except {
			return true
		}
	}
	return false
}

func (m *memDB) teacher(id int64) *models.Teacher {
	t, ok := m.teachers[id]
	if !ok {
		return nil
	}
	t.CourseIDs = m.teacherCourseIDs(id)
	return &t
}

func (m *memDB) requireTeachers(ids []int64) error {
	for _, id := range ids {
		if _, ok := m.teachers[id]; !ok {
			return apperrors.NewResourceNotFoundError(fmt.Sprintf("teacher %d does not exist", id))
		}
	}
	return nil
}

func (m *memDB) requireCourses(ids []int64) error {
	for _, id := range ids {
		if _, ok := m.courses[id]; !ok {
			return apperrors.NewResourceNotFoundError(fmt.Sprintf("course %d does not exist", id))
		}
	}
	return nil
}

func (m *memDB) requireRegion(id *int64) error {
	if id == nil {
		return nil
	}
	if _, ok := m.regions[*id]; !ok {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("region %d does not exist", *id))
	}
	return nil
}

type fakeTeacherStore struct{ m *memDB }

func (f *fakeTeacherStore) Insert(_ context.Context, t *models.Teacher) (*models.Teacher, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return nil, err
	}
	ids := models.UniqueIDs(t.CourseIDs)
	if err := f.m.requireRegion(t.RegionID); err != nil {
		return nil, err
	}
	if err := f.m.requireCourses(ids); err != nil {
		return nil, err
	}
	t.ID = f.m.id()
	t.CourseIDs = ids
	f.m.teachers[t.ID] = *t
	for _, c := range ids {
		f.m.edges[[2]int64{c, t.ID}] = true
	}
	return t, nil
}

func (f *fakeTeacherStore) Update(_ context.Context, t *models.Teacher) (*models.Teacher, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return nil, err
	}
	ids := models.UniqueIDs(t.CourseIDs)
	if err := f.m.requireRegion(t.RegionID); err != nil {
		return nil, err
	}
	if err := f.m.requireCourses(ids); err != nil {
		return nil, err
	}
	if _, ok := f.m.teachers[t.ID]; !ok {
		t.ID = f.m.id()
	}
	f.m.teachers[t.ID] = *t
	for e := range f.m.edges {
		if e[1] == t.ID {
			delete(f.m.edges, e)
		}
	}
	for _, c := range ids {
		f.m.edges[[2]int64{c, t.ID}] = true
	}
	return f.m.teacher(t.ID), nil
}

func (f *fakeTeacherStore) Delete(_ context.Context, id int64) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return err
	}
	delete(f.m.teachers, id)
	for e := range f.m.edges {
		if e[1] == id {
			delete(f.m.edges, e)
		}
	}
	return nil
}

func (f *fakeTeacherStore) GetByID(_ context.Context, id int64) (*models.Teacher, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.read(); err != nil {
		return nil, err
	}
	return f.m.teacher(id), nil
}

func (f *fakeTeacherStore) GetAll(ctx context.Context) ([]*models.Teacher, error) {
	return f.filter(func(models.Teacher) bool { return true })
}

func (f *fakeTeacherStore) GetByLastname(_ context.Context, lastname string) ([]*models.Teacher, error) {
	return f.filter(func(t models.Teacher) bool { return t.Lastname == lastname })
}

func (f *fakeTeacherStore) GetActiveTeachers(context.Context) ([]*models.Teacher, error) {
	return f.filter(func(t models.Teacher) bool { return t.Active })
}

func (f *fakeTeacherStore) filter(keep func(models.Teacher) bool) ([]*models.Teacher, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.read(); err != nil {
		return nil, err
	}
	out := []*models.Teacher{}
	for id, t := range f.m.teachers {
		if keep(t) {
			out = append(out, f.m.teacher(id))
		}
	}
	slices.SortFunc(out, func(a, b *models.Teacher) int { return int(a.ID - b.ID) })
	return out, nil
}

type fakeCourseStore struct{ m *memDB }

func (f *fakeCourseStore) Insert(_ context.Context, c *models.Course) (*models.Course, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return nil, err
	}
	if f.m.titleTaken(f.m.courses, c.Title, 0) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("Course with title '%s' already exists", c.Title))
	}
	ids := models.UniqueIDs(c.TeacherIDs)
	if err := f.m.requireTeachers(ids); err != nil {
		return nil, err
	}
	c.ID = f.m.id()
	c.TeacherIDs = ids
	f.m.courses[c.ID] = c.Title
	for _, t := range ids {
		f.m.edges[[2]int64{c.ID, t}] = true
	}
	return c, nil
}

func (f *fakeCourseStore) Update(_ context.Context, c *models.Course) (*models.Course, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return nil, err
	}
	if f.m.titleTaken(f.m.courses, c.Title, c.ID) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("Course with title '%s' already exists", c.Title))
	}
	ids := models.UniqueIDs(c.TeacherIDs)
	if err := f.m.requireTeachers(ids); err != nil {
		return nil, err
	}
	if _, ok := f.m.courses[c.ID]; !ok {
		c.ID = f.m.id()
	}
	f.m.courses[c.ID] = c.Title
	for e := range f.m.edges {
		if e[0] == c.ID {
			delete(f.m.edges, e)
		}
	}
	for _, t := range ids {
		f.m.edges[[2]int64{c.ID, t}] = true
	}
	return &models.Course{ID: c.ID, Title: c.Title, TeacherIDs: f.m.courseTeacherIDs(c.ID)}, nil
}

func (f *fakeCourseStore) AddTeacher(_ context.Context, courseID, teacherID int64) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return err
	}
	if err := f.m.requireTeachers([]int64{teacherID}); err != nil {
		return err
	}
	if err := f.m.requireCourses([]int64{courseID}); err != nil {
		return err
	}
	f.m.edges[[2]int64{courseID, teacherID}] = true
	return nil
}

func (f *fakeCourseStore) RemoveTeacher(_ context.Context, courseID, teacherID int64) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return err
	}
	delete(f.m.edges, [2]int64{courseID, teacherID})
	return nil
}

func (f *fakeCourseStore) Delete(_ context.Context, id int64) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return err
	}
	delete(f.m.courses, id)
	for e := range f.m.edges {
		if e[0] == id {
			delete(f.m.edges, e)
		}
	}
	return nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id int64) (*models.Course, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.read(); err != nil {
		return nil, err
	}
	title, ok := f.m.courses[id]
	if !ok {
		return nil, nil
	}
	return &models.Course{ID: id, Title: title, TeacherIDs: f.m.courseTeacherIDs(id)}, nil
}

func (f *fakeCourseStore) GetByTitle(_ context.Context, title string) (*models.Course, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.read(); err != nil {
		return nil, err
	}
	for id, t := range f.m.courses {
		if t == title {
			return &models.Course{ID: id, Title: t, TeacherIDs: f.m.courseTeacherIDs(id)}, nil
		}
	}
	return nil, nil
}

func (f *fakeCourseStore) GetAll(context.Context) ([]*models.Course, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.read(); err != nil {
		return nil, err
	}
	out := []*models.Course{}
	for id, t := range f.m.courses {
		out = append(out, &models.Course{ID: id, Title: t, TeacherIDs: f.m.courseTeacherIDs(id)})
	}
	slices.SortFunc(out, func(a, b *models.Course) int { return int(a.ID - b.ID) })
	return out, nil
}

type fakeRegionStore struct{ m *memDB }

func (f *fakeRegionStore) Insert(_ context.Context, r *models.Region) (*models.Region, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return nil, err
	}
	if f.m.titleTaken(f.m.regions, r.Title, 0) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("Region with title '%s' already exists", r.Title))
	}
	ids := models.UniqueIDs(r.TeacherIDs)
	if err := f.m.requireTeachers(ids); err != nil {
		return nil, err
	}
	r.ID = f.m.id()
	r.TeacherIDs = ids
	f.m.regions[r.ID] = r.Title
	f.m.attach(r.ID, ids)
	return r, nil
}

func (f *fakeRegionStore) Update(_ context.Context, r *models.Region) (*models.Region, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return nil, err
	}
	if f.m.titleTaken(f.m.regions, r.Title, r.ID) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("Region with title '%s' already exists", r.Title))
	}
	ids := models.UniqueIDs(r.TeacherIDs)
	if err := f.m.requireTeachers(ids); err != nil {
		return nil, err
	}
	if _, ok := f.m.regions[r.ID]; !ok {
		r.ID = f.m.id()
	}
	f.m.regions[r.ID] = r.Title
	f.m.detach(r.ID)
	f.m.attach(r.ID, ids)
	return &models.Region{ID: r.ID, Title: r.Title, TeacherIDs: f.m.regionTeacherIDs(r.ID)}, nil
}

func (f *fakeRegionStore) AddTeacher(_ context.Context, regionID, teacherID int64) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return err
	}
	if err := f.m.requireTeachers([]int64{teacherID}); err != nil {
		return err
	}
	f.m.attach(regionID, []int64{teacherID})
	return nil
}

func (f *fakeRegionStore) RemoveTeacher(_ context.Context, regionID, teacherID int64) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return err
	}
	if t, ok := f.m.teachers[teacherID]; ok && t.InRegion(regionID) {
		t.RegionID = nil
		f.m.teachers[teacherID] = t
	}
	return nil
}

func (f *fakeRegionStore) Delete(_ context.Context, id int64) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.write(); err != nil {
		return err
	}
	delete(f.m.regions, id)
	f.m.detach(id)
	return nil
}

func (f *fakeRegionStore) GetByID(_ context.Context, id int64) (*models.Region, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.read(); err != nil {
		return nil, err
	}
	title, ok := f.m.regions[id]
	if !ok {
		return nil, nil
	}
	return &models.Region{ID: id, Title: title, TeacherIDs: f.m.regionTeacherIDs(id)}, nil
}

func (f *fakeRegionStore) GetByTitle(_ context.Context, title string) (*models.Region, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.read(); err != nil {
		return nil, err
	}
	for id, t := range f.m.regions {
		if t == title {
			return &models.Region{ID: id, Title: t, TeacherIDs: f.m.regionTeacherIDs(id)}, nil
		}
	}
	return nil, nil
}

func (f *fakeRegionStore) GetAll(context.Context) ([]*models.Region, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if err := f.m.read(); err != nil {
		return nil, err
	}
	out := []*models.Region{}
	for id, t := range f.m.regions {
		out = append(out, &models.Region{ID: id, Title: t, TeacherIDs: f.m.regionTeacherIDs(id)})
	}
	slices.SortFunc(out, func(a, b *models.Region) int { return int(a.ID - b.ID) })
	return out, nil
}

func (m *memDB) attach(regionID int64, teacherIDs []int64) {
	for _, id := range teacherIDs {
		t := m.teachers[id]
		rid := regionID
		t.RegionID = &rid
		m.teachers[id] = t
	}
}

func (m *memDB) detach(regionID int64) {
	for id, t := range m.teachers {
		if t.InRegion(regionID) {
			t.RegionID = nil
			m.teachers[id] = t
		}
	}
}
