package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/schooladmin/internal/db"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

//go:embed sql/*.sql
var embedded embed.FS

// Embedded returns the migrations compiled into the binary
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(fmt.Sprintf("migrations: embedded sql dir: %v", err))
	}
	return sub
}

// Source picks the migration files: dir when set, otherwise the embedded ones
func Source(dir string) fs.FS {
	if dir == "" {
		return Embedded()
	}
	return os.DirFS(dir)
}

// Migrator manages database migrations
type Migrator struct {
	db    db.Pool
	files fs.FS
}

// NewMigrator creates a new migrator reading *.sql files from files
func NewMigrator(pool db.Pool, files fs.FS) *Migrator {
	return &Migrator{
		db:    pool,
		files: files,
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := m.db.Exec(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`
	err := m.db.QueryRow(ctx, query, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// recordMigration marks a migration as applied inside the migration's transaction
func recordMigration(ctx context.Context, tx pgx.Tx, version string) error {
	_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
		version, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// versionOf extracts the version prefix, e.g. "001_init.sql" => "001"
func versionOf(name string) string {
	return strings.SplitN(path.Base(name), "_", 2)[0]
}

// MigrateFile applies one migration file unless its version is recorded
func (m *Migrator) MigrateFile(ctx context.Context, name string) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	version := versionOf(name)
	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		logger.Debug().Str("file", name).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(m.files, name)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", name, err)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("error occurred during SQL migration %s: %w", name, err)
	}

	if err := recordMigration(ctx, tx, version); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info().Str("file", name).Str("version", version).Msg("Migration applied")
	return nil
}

// Migrate applies every *.sql file at the root of the source in name order
func (m *Migrator) Migrate(ctx context.Context) error {
	entries, err := fs.ReadDir(m.files, ".")
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, file := range sqlFiles {
		if err := m.MigrateFile(ctx, file); err != nil {
			return err
		}
	}

	logger.Info().Int("files", len(sqlFiles)).Msg("Database migrations complete")
	return nil
}
