package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/db"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/dberrors"
)

// course_teachers holds the Course<->Teacher edges. Either side can own a
// write: owner is the column whose id is fixed, other the column listing the
// related ids.
const courseTeachersTable = "course_teachers"

const (
	courseIDColumn  = "course_id"
	teacherIDColumn = "teacher_id"
)

// edgeSide names the two columns of one direction of the edge table
type edgeSide struct {
	owner string
	other string
}

var (
	courseSide  = edgeSide{owner: courseIDColumn, other: teacherIDColumn}
	teacherSide = edgeSide{owner: teacherIDColumn, other: courseIDColumn}
)

// insertEdges links ownerID to every id in otherIDs; existing edges are kept
func insertEdges(ctx context.Context, q db.DBTX, sb squirrel.StatementBuilderType, side edgeSide, ownerID int64, otherIDs []int64) error {
	ids := models.UniqueIDs(otherIDs)
	if len(ids) == 0 {
		return nil
	}

	builder := sb.Insert(courseTeachersTable).Columns(side.owner, side.other)
	for _, id := range ids {
		builder = builder.Values(ownerID, id)
	}
	sql, args, err := builder.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert %s query: %w", courseTeachersTable, err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewCustomError(apperrors.KindNotFound,
				fmt.Sprintf("one of %v does not exist", ids), err).
				WithCode(dberrors.ForeignKeyViolation)
		}
		return fmt.Errorf("error inserting %s: %w", courseTeachersTable, err)
	}
	return nil
}

// replaceEdges makes the edge set of ownerID exactly otherIDs
func replaceEdges(ctx context.Context, q db.DBTX, sb squirrel.StatementBuilderType, side edgeSide, ownerID int64, otherIDs []int64) error {
	sql, args, err := sb.Delete(courseTeachersTable).
		Where(squirrel.Eq{side.owner: ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete %s query: %w", courseTeachersTable, err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error clearing %s: %w", courseTeachersTable, err)
	}

	return insertEdges(ctx, q, sb, side, ownerID, otherIDs)
}

// deleteEdge unlinks a single course/teacher pair; a missing edge is not an error
func deleteEdge(ctx context.Context, q db.DBTX, sb squirrel.StatementBuilderType, courseID, teacherID int64) error {
	sql, args, err := sb.Delete(courseTeachersTable).
		Where(squirrel.Eq{courseIDColumn: courseID, teacherIDColumn: teacherID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete %s query: %w", courseTeachersTable, err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting %s row: %w", courseTeachersTable, err)
	}
	return nil
}

// loadEdgeIDs returns the ids linked to ownerID, ascending
func loadEdgeIDs(ctx context.Context, q db.DBTX, sb squirrel.StatementBuilderType, side edgeSide, ownerID int64) ([]int64, error) {
	sql, args, err := sb.Select(side.other).
		From(courseTeachersTable).
		Where(squirrel.Eq{side.owner: ownerID}).
		OrderBy(side.other).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select %s query: %w", courseTeachersTable, err)
	}

	return queryIDs(ctx, q, sql, args...)
}

// loadEdgeMap returns the linked ids for each of ownerIDs
func loadEdgeMap(ctx context.Context, q db.DBTX, sb squirrel.StatementBuilderType, side edgeSide, ownerIDs []int64) (map[int64][]int64, error) {
	if len(ownerIDs) == 0 {
		return map[int64][]int64{}, nil
	}

	sql, args, err := sb.Select(side.owner, side.other).
		From(courseTeachersTable).
		Where(squirrel.Eq{side.owner: ownerIDs}).
		OrderBy(side.owner, side.other).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select %s query: %w", courseTeachersTable, err)
	}

	return queryIDPairs(ctx, q, sql, args...)
}

// queryIDs scans a single int64 column
func queryIDs(ctx context.Context, q db.DBTX, sql string, args ...interface{}) ([]int64, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ids: %w", err)
	}
	return ids, nil
}

// queryIDPairs scans (key, value) int64 rows into a map of slices
func queryIDPairs(ctx context.Context, q db.DBTX, sql string, args ...interface{}) (map[int64][]int64, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying id pairs: %w", err)
	}
	defer rows.Close()

	pairs := map[int64][]int64{}
	for rows.Next() {
		var key, value int64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("error scanning id pair: %w", err)
		}
		pairs[key] = append(pairs[key], value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating id pairs: %w", err)
	}
	return pairs, nil
}

// Constraints whose violation means a duplicate title. Any other unique
// violation (a primary key clash, for one) is a plain persistence failure.
const (
	courseTitleConstraint = "courses_title_key"
	regionTitleConstraint = "regions_title_key"
)

// translateWriteError maps store constraint violations onto application
// error kinds, keeping the SQLSTATE and constraint name; other errors are
// returned unchanged. titleConstraint is empty for tables without a title.
func translateWriteError(err error, entity, title, titleConstraint string) error {
	var appErr *apperrors.CustomError
	switch {
	case titleConstraint != "" && dberrors.IsDuplicateConstraintError(err, titleConstraint):
		appErr = apperrors.NewCustomError(apperrors.KindConflict,
			fmt.Sprintf("%s with title '%s' already exists", entity, title), err).
			WithCode(dberrors.UniqueViolation)
	case dberrors.IsForeignKeyViolation(err):
		appErr = apperrors.NewCustomError(apperrors.KindNotFound,
			fmt.Sprintf("%s references a record that does not exist", entity), err).
			WithCode(dberrors.ForeignKeyViolation)
	default:
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		appErr = appErr.WithDetails(map[string]interface{}{"constraint": pgErr.ConstraintName})
	}
	return appErr
}
