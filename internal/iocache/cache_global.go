package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
)

// Table names used by the stores.
const (
	treeTable    = "tree_cache"
	journalTable = "action_journal"
)

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for storage.
func GetDBFilePath() string {
	return contract.GetDBFilePath()
}

// InitCaching initializes the global manager. The tree cache always uses
// backend, and the journal is only opened when journal is true.
func InitCaching(backend schema.DatabaseBackend, connStr string, journal bool) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		treeStore, err := NewCacheStore(treeTable, backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize tree caching: %w", err)
			return
		}

		var journalStore contract.JournalStore
		if journal {
			journalStore, err = NewJournalStore(journalTable, backend, connStr)
			if err != nil {
				_ = treeStore.Close()
				initErr = fmt.Errorf("failed to initialize action journal: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.tree = treeStore
		Manager.journal = journalStore
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.tree != nil {
			_ = Manager.tree.Close()
		}
		if Manager.journal != nil {
			_ = Manager.journal.Close()
		}
	})
}

// ClearCache clears the stored data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName, err := driverFor(backend)
		if err != nil {
			return err
		}
		for _, table := range []string{treeTable, journalTable} {
			if err := clearSQLTable(driverName, connStr, quoteTableName(table, backend)); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
