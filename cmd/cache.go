package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/iocache"
	"github.com/huangsam/gitpick/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storageConfig reads and validates the storage backend from config, env and flags.
func storageConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need storage access without full shared setup.
func cacheSetup() error {
	backend, connStr, err := storageConfig()
	if err != nil {
		return err
	}

	if err := iocache.InitCaching(backend, connStr, backend != schema.NoneBackend); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// migrateSetup resolves the backend without opening stores or creating tables,
// allowing migrations to run on a fresh database.
func migrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storageConfig()
	if err != nil {
		return err
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// sqliteFilePath returns the database file used by the SQLite backend.
func sqliteFilePath() string {
	if cfg.CacheDBConnect != "" {
		return cfg.CacheDBConnect
	}
	return iocache.GetDBFilePath()
}

// cacheCmd focused on storage management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by source commands. This avoids repository
// resolution and complex config processing for simple storage operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the tree cache and the action journal",
	Long: `Manage the storage shared by every gitpick command.

Gitpick caches 'git ls-tree' listings by tree hash, so listing files of an
unchanged tree never runs git twice. Every action run is recorded in the
action journal.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None

Subcommands:
  status  - Show cache and journal statistics
  clear   - Remove all stored data
  migrate - Migrate the journal schema
  export  - Export the journal to a Parquet file

Examples:
  # Check cache status
  gitpick cache status

  # Use MySQL (set connection string via env variable)
  GITPICK_CACHE_BACKEND=mysql GITPICK_CACHE_DB_CONNECT="..." gitpick cache status`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached listings and journal entries",
	Long: `Delete all stored data from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache and journal tables`,
	PreRunE: migrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, sqliteFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache and journal statistics",
	Long: `Show the backend, connection state, entry counts, timestamps and size of the
tree cache, followed by the state of the action journal.`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetTreeStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)

		journal := iocache.Manager.GetJournalStore()
		if journal == nil {
			fmt.Println("Journal: disabled")
			return
		}
		journalStatus, err := journal.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get journal status", err)
		}
		iocache.PrintJournalStatus(os.Stdout, journalStatus)
	},
}

// cacheMigrateCmd migrates the journal schema.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the action journal schema",
	Long: `Apply the embedded journal migrations for the configured backend.

Examples:
  # Migrate to the latest version
  gitpick cache migrate

  # Roll back everything
  gitpick cache migrate --target-version 0`,
	PreRunE: migrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		msg, err := iocache.MigrateJournal(cfg.CacheBackend, cfg.CacheDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to migrate journal", err)
		}
		fmt.Println(msg)
	},
}

// cacheExportCmd exports the journal to Parquet.
var cacheExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the action journal to a Parquet file",
	Long: `Write every journal entry to the Parquet file given by --output-file.

Examples:
  gitpick cache export --output-file journal.parquet`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportJournal(os.Stdout, iocache.Manager.GetJournalStore(), viper.GetString("output-file")); err != nil {
			contract.LogFatal("Failed to export journal", err)
		}
	},
}
