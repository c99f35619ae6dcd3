package iocache

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/gitpick/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrateJournal runs database migrations for the action journal and
// returns a summary of what changed.
//   - If targetVersion < 0, it migrates to the latest version.
//   - If targetVersion == 0, it rolls back all migrations (to initial state).
//   - If targetVersion > 0, it migrates to the specified version.
func MigrateJournal(backend schema.DatabaseBackend, connStr string, targetVersion int) (string, error) {
	if backend == schema.NoneBackend {
		return "", fmt.Errorf("migrations are not supported for NoneBackend")
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()

	// Create a migrate driver instance
	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	}
	if err != nil {
		return "", fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	// Each backend has its own dialect of the same migrations
	migrationFS, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return "", fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return "", fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "gitpick", driver)
	if err != nil {
		return "", fmt.Errorf("failed to create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return "", fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return "", fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			return "No migration needed. Database is already at the latest version.", nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		newVersion, _, _ := m.Version()
		return fmt.Sprintf("Successfully migrated from version %d to version %d", currentVersion, newVersion), nil

	case targetVersion == 0:
		// Special case: migrate all the way down to version 0 (no migrations applied)
		err = m.Down()
		if errors.Is(err, migrate.ErrNoChange) {
			return "No migration needed. Database is already at version 0", nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		return fmt.Sprintf("Successfully rolled back from version %d to version 0", currentVersion), nil

	default:
		err = m.Migrate(uint(targetVersion))
		if errors.Is(err, migrate.ErrNoChange) {
			return fmt.Sprintf("No migration needed. Database is already at version %d", targetVersion), nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		return fmt.Sprintf("Successfully migrated from version %d to version %d", currentVersion, targetVersion), nil
	}
}
