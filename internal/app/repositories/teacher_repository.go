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

const teachersTable = "teachers"

var teacherColumns = []string{"id", "firstname", "lastname", "active", "region_id"}

const teacherReturning = "RETURNING id, firstname, lastname, active, region_id"

// TeacherRepository handles teacher database operations
type TeacherRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(database *db.PostgresDB) *TeacherRepository {
	return &TeacherRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Insert stores a new teacher with its region and course assignments
func (r *TeacherRepository) Insert(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	var id int64
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert(teachersTable).
			Columns("firstname", "lastname", "active", "region_id").
			Values(teacher.Firstname, teacher.Lastname, teacher.Active, teacher.RegionID).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert teacher query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return translateWriteError(err, "Teacher", "", "")
		}

		return insertEdges(ctx, tx, r.sb, teacherSide, id, teacher.CourseIDs)
	})
	if err != nil {
		logger.Error().Err(err).Str("lastname", teacher.Lastname).Msg("Error inserting teacher")
		return nil, wrapStoreError(err, "error inserting teacher")
	}

	teacher.ID = id
	teacher.CourseIDs = models.UniqueIDs(teacher.CourseIDs)
	return teacher, nil
}

// Update merges the teacher by identity. Its region and its course set are
// replaced with the ones carried by teacher. An unknown id is stored as a new
// teacher under a generated id.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	var merged *models.Teacher
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update(teachersTable).
			Set("firstname", teacher.Firstname).
			Set("lastname", teacher.Lastname).
			Set("active", teacher.Active).
			Set("region_id", teacher.RegionID).
			Where(squirrel.Eq{"id": teacher.ID}).
			Suffix(teacherReturning).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update teacher query: %w", err)
		}

		stored, err := scanTeacher(tx.QueryRow(ctx, sql, args...))
		if errors.Is(err, pgx.ErrNoRows) {
			sql, args, err = r.sb.Insert(teachersTable).
				Columns("firstname", "lastname", "active", "region_id").
				Values(teacher.Firstname, teacher.Lastname, teacher.Active, teacher.RegionID).
				Suffix(teacherReturning).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build insert teacher query: %w", err)
			}
			stored, err = scanTeacher(tx.QueryRow(ctx, sql, args...))
		}
		if err != nil {
			return translateWriteError(err, "Teacher", "", "")
		}

		if err := replaceEdges(ctx, tx, r.sb, teacherSide, stored.ID, teacher.CourseIDs); err != nil {
			return err
		}

		stored.CourseIDs, err = loadEdgeIDs(ctx, tx, r.sb, teacherSide, stored.ID)
		if err != nil {
			return err
		}

		merged = stored
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("teacherID", teacher.ID).Msg("Error updating teacher")
		return nil, wrapStoreError(err, "error updating teacher")
	}

	return merged, nil
}

// Delete removes the teacher and its course assignments. Deleting an
// unknown id succeeds without changing anything.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return deleteByID(ctx, tx, r.sb, teachersTable, id)
	})
	if err != nil {
		logger.Error().Err(err).Int64("teacherID", id).Msg("Error deleting teacher")
		return wrapStoreError(err, "error deleting teacher")
	}
	return nil
}

// GetByID retrieves a teacher by ID. Returns nil, nil when it does not exist.
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	sql, args, err := r.sb.Select(teacherColumns...).
		From(teachersTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get teacher query: %w", err)
	}

	teacher, err := scanTeacher(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Int64("teacherID", id).Msg("Error scanning teacher row")
		return nil, fmt.Errorf("error getting teacher: %w", err)
	}

	teacher.CourseIDs, err = loadEdgeIDs(ctx, r.db.Pool, r.sb, teacherSide, teacher.ID)
	if err != nil {
		return nil, err
	}
	return teacher, nil
}

// GetAll retrieves all teachers ordered by id
func (r *TeacherRepository) GetAll(ctx context.Context) ([]*models.Teacher, error) {
	return r.list(ctx, nil)
}

// GetByLastname retrieves teachers whose lastname equals lastname exactly
func (r *TeacherRepository) GetByLastname(ctx context.Context, lastname string) ([]*models.Teacher, error) {
	return r.list(ctx, squirrel.Eq{"lastname": lastname})
}

// GetActiveTeachers retrieves teachers with the active flag set
func (r *TeacherRepository) GetActiveTeachers(ctx context.Context) ([]*models.Teacher, error) {
	return r.list(ctx, squirrel.Eq{"active": true})
}

func (r *TeacherRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Teacher, error) {
	query := r.sb.Select(teacherColumns...).From(teachersTable)
	if where != nil {
		query = query.Where(where)
	}

	sql, args, err := query.OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list teachers query: %w", err)
	}

	teachers, err := r.queryTeachers(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list teachers query")
		return nil, err
	}

	ids := make([]int64, len(teachers))
	for i, t := range teachers {
		ids[i] = t.ID
	}
	edges, err := loadEdgeMap(ctx, r.db.Pool, r.sb, teacherSide, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range teachers {
		t.CourseIDs = append([]int64{}, edges[t.ID]...)
	}

	return teachers, nil
}

func (r *TeacherRepository) queryTeachers(ctx context.Context, sql string, args ...interface{}) ([]*models.Teacher, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying teachers: %w", err)
	}
	defer rows.Close()

	teachers := []*models.Teacher{}
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning teacher row: %w", err)
		}
		teachers = append(teachers, teacher)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teacher rows: %w", err)
	}
	return teachers, nil
}

// scanTeacher reads the teacherColumns of one row
func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	t := &models.Teacher{}
	if err := row.Scan(&t.ID, &t.Firstname, &t.Lastname, &t.Active, &t.RegionID); err != nil {
		return nil, err
	}
	return t, nil
}
