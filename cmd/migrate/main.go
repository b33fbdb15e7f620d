package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/afpthedev/smyapp/internal/config"
	"github.com/afpthedev/smyapp/pkg/logger"
)

func main() {
	configPath := pflag.String("config", "", "directory holding config.yaml")
	path := pflag.String("path", "", "migrations directory (defaults to database.migrationsPath)")
	down := pflag.Bool("down", false, "roll back instead of applying")
	steps := pflag.Int("steps", 0, "number of migrations to apply or roll back; 0 means all")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	log.Logger = *logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
	}).Zerolog()

	dir := *path
	if dir == "" {
		dir = cfg.Database.MigrationsPath
	}

	m, err := migrate.New("file://"+dir, cfg.Database.URL())
	if err != nil {
		log.Fatal().Err(err).Str("path", dir).Msg("failed to initialise migrations")
	}
	defer m.Close()

	if err := run(m, *down, *steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("no migrations to run")
			return
		}
		log.Error().Err(err).Msg("migration failed")
		os.Exit(1)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Fatal().Err(err).Msg("failed to read schema version")
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations complete")
}

func run(m *migrate.Migrate, down bool, steps int) error {
	switch {
	case steps < 0:
		return fmt.Errorf("steps must not be negative, got %d", steps)
	case steps > 0 && down:
		return m.Steps(-steps)
	case steps > 0:
		return m.Steps(steps)
	case down:
		return m.Down()
	default:
		return m.Up()
	}
}
