package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Migration directions.
const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// RunMigrations applies (or, for MigrateDown, reverts) every migration found
// at migrationsPath. A temporary database/sql connection is opened through
// the pgx stdlib driver because golang-migrate needs one.
func RunMigrations(databaseURL, migrationsPath, direction string, logger *slog.Logger) error {
	if direction != MigrateUp && direction != MigrateDown {
		return fmt.Errorf("unknown migration direction %q", direction)
	}

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	logger.Info("Running database migrations", slog.String("direction", direction), slog.String("path", migrationsPath))
	if direction == MigrateUp {
		err = m.Up()
	} else {
		err = m.Down()
	}
	noChange := errors.Is(err, migrate.ErrNoChange)
	if err != nil && !noChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Surface dirty state left behind by the run.
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if noChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
