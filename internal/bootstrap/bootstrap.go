package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	appMigrations "github.com/yigit/schooladmin/internal/app/migrations"
	appRepos "github.com/yigit/schooladmin/internal/app/repositories"
	appServices "github.com/yigit/schooladmin/internal/app/services"
	"github.com/yigit/schooladmin/internal/config"
	"github.com/yigit/schooladmin/internal/db"
	"github.com/yigit/schooladmin/internal/pkg/logger"
	"github.com/yigit/schooladmin/internal/seed"
)

// DefaultConfigPath is used when no path is given on the command line
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config   *config.Config
	DB       *db.PostgresDB
	Repos    *appRepos.Repositories
	Services *appServices.Services
	Logger   zerolog.Logger
}

// LoggerConfig maps the logging section of the configuration onto the logger
func LoggerConfig(cfg *config.Config) logger.Config {
	return logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
		File: logger.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		},
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(LoggerConfig(cfg))

	lgr := logger.Get()
	lgr.Info().
		Str("logLevel", cfg.Logging.Level).
		Str("logFormat", cfg.Logging.Format).
		Str("environment", cfg.App.Environment).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("dbname", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	source := "embedded"
	if cfg.App.MigrationsDir != "" {
		source = cfg.App.MigrationsDir
	}
	lgr.Info().Str("source", source).Msg("Running database migrations...")

	migrator := appMigrations.NewMigrator(database.Pool, appMigrations.Source(cfg.App.MigrationsDir))
	if err := migrator.Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	return database, nil
}

// BuildDependencies initializes application repositories and services.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) *Dependencies {
	repos := appRepos.NewRepositories(database)
	return &Dependencies{
		Config:   cfg,
		DB:       database,
		Repos:    repos,
		Services: appServices.NewServices(repos),
		Logger:   lgr,
	}
}

// SeedDefaults creates default data when the configuration asks for it.
// Failures are logged; startup proceeds anyway.
func (d *Dependencies) SeedDefaults(ctx context.Context) {
	if !d.Config.App.SeedDefaults {
		return
	}
	if err := seed.CreateDefaultData(ctx, d.Services.RegionService, d.Services.CourseService, d.Logger); err != nil {
		d.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// Close releases the database pool
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
