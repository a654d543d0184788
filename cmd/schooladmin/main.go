package main

import (
	"context"
	"flag"
	"os"

	"github.com/yigit/schooladmin/internal/bootstrap"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", bootstrap.DefaultConfigPath, "path to the YAML configuration file")
	flag.Parse()

	if err := run(context.Background(), *configPath); err != nil {
		// Details are logged by the setup functions
		logger.Error().Err(err).Msg("School admin startup failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return err
	}

	deps := bootstrap.BuildDependencies(cfg, database, lgr)
	defer deps.Close()

	deps.SeedDefaults(ctx)

	regions, err := deps.Services.RegionService.GetAllRegions(ctx)
	if err != nil {
		return err
	}
	courses, err := deps.Services.CourseService.GetAllCourses(ctx)
	if err != nil {
		return err
	}
	teachers, err := deps.Services.TeacherService.GetAllTeachers(ctx)
	if err != nil {
		return err
	}
	active, err := deps.Services.TeacherService.GetActiveTeachers(ctx)
	if err != nil {
		return err
	}

	lgr.Info().
		Int("regions", len(regions)).
		Int("courses", len(courses)).
		Int("teachers", len(teachers)).
		Int("activeTeachers", len(active)).
		Msg("School admin data layer ready")
	return nil
}
