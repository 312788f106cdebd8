package migrator

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"meal-checkin/internal/config"
)

//go:embed migrations
var fs embed.FS

// RunMigrations applies the embedded migrations for the configured driver
// over a dedicated connection.
func RunMigrations(cfg config.StorageConfig, log *slog.Logger) error {
	const op = "migrator.RunMigrations"

	migrationDB, err := sqlx.Connect(cfg.DriverName(), cfg.ConnString())
	if err != nil {
		return fmt.Errorf("%s: failed to connect: %w", op, err)
	}
	defer migrationDB.Close()

	var driver database.Driver
	switch cfg.Driver {
	case config.DriverPostgres:
		driver, err = postgres.WithInstance(migrationDB.DB, &postgres.Config{})
	default:
		driver, err = sqlite.WithInstance(migrationDB.DB, &sqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("%s: failed to create driver: %w", op, err)
	}

	source, err := iofs.New(fs, "migrations/"+cfg.Driver)
	if err != nil {
		return fmt.Errorf("%s: failed to create source: %w", op, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, cfg.Driver, driver)
	if err != nil {
		return fmt.Errorf("%s: failed to create migrate instance: %w", op, err)
	}
	defer m.Close()

	log.Info("applying database migrations", slog.String("driver", cfg.Driver))
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: migration failed: %w", op, err)
	}

	return nil
}
