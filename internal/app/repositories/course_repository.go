package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/db"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

const coursesTable = "courses"

// CourseRepository handles course database operations
type CourseRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(database *db.PostgresDB) *CourseRepository {
	return &CourseRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Insert stores a new course together with its teacher assignments and
// returns it with the assigned ID.
func (r *CourseRepository) Insert(ctx context.Context, course *models.Course) (*models.Course, error) {
	var id int64
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert(coursesTable).
			Columns("title").
			Values(course.Title).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert course query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return translateWriteError(err, "Course", course.Title, courseTitleConstraint)
		}

		return insertEdges(ctx, tx, r.sb, courseSide, id, course.TeacherIDs)
	})
	if err != nil {
		logger.Error().Err(err).Str("title", course.Title).Msg("Error inserting course")
		return nil, wrapStoreError(err, "error inserting course")
	}

	course.ID = id
	course.TeacherIDs = models.UniqueIDs(course.TeacherIDs)
	return course, nil
}

// Update merges the course state into the store by identity and replaces its
// teacher assignments with course.TeacherIDs. An unknown id is stored as a
// new course under a generated id. Returns the stored state.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) (*models.Course, error) {
	var merged *models.Course
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update(coursesTable).
			Set("title", course.Title).
			Where(squirrel.Eq{"id": course.ID}).
			Suffix("RETURNING id, title").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update course query: %w", err)
		}

		stored := &models.Course{}
		err = tx.QueryRow(ctx, sql, args...).Scan(&stored.ID, &stored.Title)
		if errors.Is(err, pgx.ErrNoRows) {
			sql, args, err = r.sb.Insert(coursesTable).
				Columns("title").
				Values(course.Title).
				Suffix("RETURNING id, title").
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build insert course query: %w", err)
			}
			err = tx.QueryRow(ctx, sql, args...).Scan(&stored.ID, &stored.Title)
		}
		if err != nil {
			return translateWriteError(err, "Course", course.Title, courseTitleConstraint)
		}

		if err := replaceEdges(ctx, tx, r.sb, courseSide, stored.ID, course.TeacherIDs); err != nil {
			return err
		}

		stored.TeacherIDs, err = loadEdgeIDs(ctx, tx, r.sb, courseSide, stored.ID)
		if err != nil {
			return err
		}

		merged = stored
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error updating course")
		return nil, wrapStoreError(err, "error updating course")
	}

	return merged, nil
}

// AddTeacher links one teacher to the course without touching its other
// assignments. Linking an already linked teacher is a no-op.
func (r *CourseRepository) AddTeacher(ctx context.Context, courseID, teacherID int64) error {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return insertEdges(ctx, tx, r.sb, courseSide, courseID, []int64{teacherID})
	})
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("teacherID", teacherID).
			Msg("Error adding teacher to course")
		return wrapStoreError(err, "error adding teacher to course")
	}
	return nil
}

// RemoveTeacher unlinks one teacher from the course, leaving its other
// assignments in place.
func (r *CourseRepository) RemoveTeacher(ctx context.Context, courseID, teacherID int64) error {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return deleteEdge(ctx, tx, r.sb, courseID, teacherID)
	})
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("teacherID", teacherID).
			Msg("Error removing teacher from course")
		return wrapStoreError(err, "error removing teacher from course")
	}
	return nil
}

// Delete removes the course and its teacher assignments. Deleting an
// unknown id succeeds without changing anything.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return deleteByID(ctx, tx, r.sb, coursesTable, id)
	})
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error deleting course")
		return wrapStoreError(err, "error deleting course")
	}
	return nil
}

// GetByID retrieves a course by ID. Returns nil, nil when it does not exist.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByTitle retrieves the course with exactly this title, or nil, nil
func (r *CourseRepository) GetByTitle(ctx context.Context, title string) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"title": title})
}

// GetAll retrieves all courses ordered by id
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	sql, args, err := r.sb.Select("id", "title").
		From(coursesTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all courses query: %w", err)
	}

	courses, err := r.queryCourses(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all courses query")
		return nil, err
	}

	ids := make([]int64, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	edges, err := loadEdgeMap(ctx, r.db.Pool, r.sb, courseSide, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		c.TeacherIDs = append([]int64{}, edges[c.ID]...)
	}

	return courses, nil
}

func (r *CourseRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Course, error) {
	sql, args, err := r.sb.Select("id", "title").
		From(coursesTable).
		Where(where).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course := &models.Course{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course: %w", err)
	}

	course.TeacherIDs, err = loadEdgeIDs(ctx, r.db.Pool, r.sb, courseSide, course.ID)
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (r *CourseRepository) queryCourses(ctx context.Context, sql string, args ...interface{}) ([]*models.Course, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course := &models.Course{}
		if err := rows.Scan(&course.ID, &course.Title); err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}
