package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schooladmin/internal/db"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

// Repositories holds all the repository instances
type Repositories struct {
	TeacherRepository *TeacherRepository
	CourseRepository  *CourseRepository
	RegionRepository  *RegionRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		TeacherRepository: NewTeacherRepository(database),
		CourseRepository:  NewCourseRepository(database),
		RegionRepository:  NewRegionRepository(database),
	}
}

// statementBuilder returns a squirrel builder using PostgreSQL placeholders
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// deleteByID locks the row, then deletes it. A missing row is not an error.
func deleteByID(ctx context.Context, tx db.DBTX, sb squirrel.StatementBuilderType, table string, id int64) error {
	sql, args, err := sb.Select("id").
		From(table).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build lookup %s query: %w", table, err)
	}

	var found int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Debug().Str("table", table).Int64("id", id).Msg("Delete of unknown id, nothing to do")
			return nil
		}
		return fmt.Errorf("error looking up %s row: %w", table, err)
	}

	sql, args, err = sb.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete %s query: %w", table, err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting %s row: %w", table, err)
	}
	return nil
}

// wrapStoreError adds context to raw driver errors. Errors already carrying
// an application kind are returned as they are.
func wrapStoreError(err error, message string) error {
	var appErr *apperrors.CustomError
	if errors.As(err, &appErr) {
		return err
	}
	return fmt.Errorf("%s: %w", message, err)
}
