package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/db"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

const regionsTable = "regions"

// RegionRepository handles region database operations. A region's teachers
// are the rows of teachers whose region_id points at it.
type RegionRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewRegionRepository creates a new RegionRepository
func NewRegionRepository(database *db.PostgresDB) *RegionRepository {
	return &RegionRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Insert stores a new region, moves the listed teachers into it and returns
// it with the assigned ID.
func (r *RegionRepository) Insert(ctx context.Context, region *models.Region) (*models.Region, error) {
	var id int64
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert(regionsTable).
			Columns("title").
			Values(region.Title).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert region query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return translateWriteError(err, "Region", region.Title, regionTitleConstraint)
		}

		return r.attachTeachers(ctx, tx, id, region.TeacherIDs)
	})
	if err != nil {
		logger.Error().Err(err).Str("title", region.Title).Msg("Error inserting region")
		return nil, wrapStoreError(err, "error inserting region")
	}

	region.ID = id
	region.TeacherIDs = models.UniqueIDs(region.TeacherIDs)
	return region, nil
}

// Update merges the region by identity and makes region.TeacherIDs the
// exact set of teachers pointing at it: listed teachers are moved in,
// teachers no longer listed lose their region. An unknown id is stored as a
// new region under a generated id.
func (r *RegionRepository) Update(ctx context.Context, region *models.Region) (*models.Region, error) {
	var merged *models.Region
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update(regionsTable).
			Set("title", region.Title).
			Where(squirrel.Eq{"id": region.ID}).
			Suffix("RETURNING id, title").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update region query: %w", err)
		}

		stored := &models.Region{}
		err = tx.QueryRow(ctx, sql, args...).Scan(&stored.ID, &stored.Title)
		if errors.Is(err, pgx.ErrNoRows) {
			sql, args, err = r.sb.Insert(regionsTable).
				Columns("title").
				Values(region.Title).
				Suffix("RETURNING id, title").
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build insert region query: %w", err)
			}
			err = tx.QueryRow(ctx, sql, args...).Scan(&stored.ID, &stored.Title)
		}
		if err != nil {
			return translateWriteError(err, "Region", region.Title, regionTitleConstraint)
		}

		ids := models.UniqueIDs(region.TeacherIDs)
		if err := r.detachTeachersExcept(ctx, tx, stored.ID, ids); err != nil {
			return err
		}
		if err := r.attachTeachers(ctx, tx, stored.ID, ids); err != nil {
			return err
		}

		stored.TeacherIDs, err = r.loadTeacherIDs(ctx, tx, stored.ID)
		if err != nil {
			return err
		}

		merged = stored
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("regionID", region.ID).Msg("Error updating region")
		return nil, wrapStoreError(err, "error updating region")
	}

	return merged, nil
}

// AddTeacher moves one teacher into the region. Other members are untouched.
func (r *RegionRepository) AddTeacher(ctx context.Context, regionID, teacherID int64) error {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return r.attachTeachers(ctx, tx, regionID, []int64{teacherID})
	})
	if err != nil {
		logger.Error().Err(err).Int64("regionID", regionID).Int64("teacherID", teacherID).
			Msg("Error adding teacher to region")
		return wrapStoreError(err, "error adding teacher to region")
	}
	return nil
}

// RemoveTeacher clears the teacher's region if it currently is this region
func (r *RegionRepository) RemoveTeacher(ctx context.Context, regionID, teacherID int64) error {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update(teachersTable).
			Set("region_id", squirrel.Expr("NULL")).
			Where(squirrel.Eq{"id": teacherID, "region_id": regionID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build detach teacher query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error detaching teacher from region: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("regionID", regionID).Int64("teacherID", teacherID).
			Msg("Error removing teacher from region")
		return wrapStoreError(err, "error removing teacher from region")
	}
	return nil
}

// Delete removes the region; its teachers keep existing without a region.
// Deleting an unknown id succeeds without changing anything.
func (r *RegionRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return deleteByID(ctx, tx, r.sb, regionsTable, id)
	})
	if err != nil {
		logger.Error().Err(err).Int64("regionID", id).Msg("Error deleting region")
		return wrapStoreError(err, "error deleting region")
	}
	return nil
}

// GetByID retrieves a region by ID. Returns nil, nil when it does not exist.
func (r *RegionRepository) GetByID(ctx context.Context, id int64) (*models.Region, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByTitle retrieves the region with exactly this title, or nil, nil
func (r *RegionRepository) GetByTitle(ctx context.Context, title string) (*models.Region, error) {
	return r.getOne(ctx, squirrel.Eq{"title": title})
}

// GetAll retrieves all regions ordered by id
func (r *RegionRepository) GetAll(ctx context.Context) ([]*models.Region, error) {
	sql, args, err := r.sb.Select("id", "title").
		From(regionsTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all regions query: %w", err)
	}

	regions, err := r.queryRegions(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all regions query")
		return nil, err
	}
	if len(regions) == 0 {
		return regions, nil
	}

	ids := make([]int64, len(regions))
	for i, region := range regions {
		ids[i] = region.ID
	}

	sql, args, err = r.sb.Select("region_id", "id").
		From(teachersTable).
		Where(squirrel.Eq{"region_id": ids}).
		OrderBy("region_id", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build region teachers query: %w", err)
	}

	members, err := queryIDPairs(ctx, r.db.Pool, sql, args...)
	if err != nil {
		return nil, err
	}
	for _, region := range regions {
		region.TeacherIDs = append([]int64{}, members[region.ID]...)
	}

	return regions, nil
}

func (r *RegionRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Region, error) {
	sql, args, err := r.sb.Select("id", "title").
		From(regionsTable).
		Where(where).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get region query: %w", err)
	}

	region := &models.Region{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&region.ID, &region.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning region row")
		return nil, fmt.Errorf("error getting region: %w", err)
	}

	region.TeacherIDs, err = r.loadTeacherIDs(ctx, r.db.Pool, region.ID)
	if err != nil {
		return nil, err
	}
	return region, nil
}

func (r *RegionRepository) queryRegions(ctx context.Context, sql string, args ...interface{}) ([]*models.Region, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying regions: %w", err)
	}
	defer rows.Close()

	regions := []*models.Region{}
	for rows.Next() {
		region := &models.Region{}
		if err := rows.Scan(&region.ID, &region.Title); err != nil {
			return nil, fmt.Errorf("error scanning region row: %w", err)
		}
		regions = append(regions, region)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating region rows: %w", err)
	}
	return regions, nil
}

func (r *RegionRepository) loadTeacherIDs(ctx context.Context, q db.DBTX, regionID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("id").
		From(teachersTable).
		Where(squirrel.Eq{"region_id": regionID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build region teachers query: %w", err)
	}
	return queryIDs(ctx, q, sql, args...)
}

// attachTeachers points every listed teacher at the region. All of them
// must exist.
func (r *RegionRepository) attachTeachers(ctx context.Context, q db.DBTX, regionID int64, teacherIDs []int64) error {
	ids := models.UniqueIDs(teacherIDs)
	if len(ids) == 0 {
		return nil
	}

	sql, args, err := r.sb.Update(teachersTable).
		Set("region_id", regionID).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build attach teachers query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error attaching teachers to region: %w", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return apperrors.NewResourceNotFoundError(
			fmt.Sprintf("one or more of teachers %v not found", ids))
	}
	return nil
}

// detachTeachersExcept clears region_id on the region's teachers that are not in keep
func (r *RegionRepository) detachTeachersExcept(ctx context.Context, q db.DBTX, regionID int64, keep []int64) error {
	sql, args, err := r.sb.Update(teachersTable).
		Set("region_id", squirrel.Expr("NULL")).
		Where(squirrel.Eq{"region_id": regionID}).
		Where(squirrel.NotEq{"id": keep}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build detach teachers query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error detaching teachers from region: %w", err)
	}
	return nil
}
