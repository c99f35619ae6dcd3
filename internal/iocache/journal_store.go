package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
)

// JournalStoreImpl records action runs in a SQL table.
type JournalStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.JournalStore = &JournalStoreImpl{} // Compile-time check

// NewJournalStore creates a JournalStore with the specified backend.
func NewJournalStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.JournalStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	// Return a no-op store for disabled journaling
	if backend == schema.NoneBackend {
		return &JournalStoreImpl{tableName: tableName, backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(getCreateJournalQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &JournalStoreImpl{db: db, tableName: tableName, backend: backend, connStr: connStr}, nil
}

// getCreateJournalQuery returns the CREATE TABLE query for the given backend.
// recorded_at holds Unix milliseconds.
func getCreateJournalQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entry_id VARCHAR(36) PRIMARY KEY,
				kind VARCHAR(32) NOT NULL,
				action VARCHAR(32) NOT NULL,
				target TEXT NOT NULL,
				repo_root TEXT NOT NULL,
				status VARCHAR(16) NOT NULL,
				message TEXT NOT NULL,
				recorded_at BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entry_id TEXT PRIMARY KEY,
				kind TEXT NOT NULL,
				action TEXT NOT NULL,
				target TEXT NOT NULL,
				repo_root TEXT NOT NULL,
				status TEXT NOT NULL,
				message TEXT NOT NULL,
				recorded_at BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entry_id TEXT PRIMARY KEY,
				kind TEXT NOT NULL,
				action TEXT NOT NULL,
				target TEXT NOT NULL,
				repo_root TEXT NOT NULL,
				status TEXT NOT NULL,
				message TEXT NOT NULL,
				recorded_at INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Record inserts one journal entry.
func (js *JournalStoreImpl) Record(entry schema.JournalEntry) error {
	if js.backend == schema.NoneBackend || js.db == nil {
		return nil
	}

	values := make([]string, 8)
	for i := range values {
		values[i] = placeholder(js.backend, i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (entry_id, kind, action, target, repo_root, status, message, recorded_at)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s)`,
		quoteTableName(js.tableName, js.backend),
		values[0], values[1], values[2], values[3], values[4], values[5], values[6], values[7])

	recordAt := entry.RecordAt
	if recordAt.IsZero() {
		recordAt = time.Now()
	}
	_, err := js.db.Exec(query,
		entry.ID, string(entry.Kind), entry.Action, entry.Target, entry.Root,
		string(entry.Status), entry.Message, recordAt.UnixMilli())
	return err
}

// List returns the newest entries first. A limit of 0 or less returns every entry.
func (js *JournalStoreImpl) List(limit int) ([]schema.JournalEntry, error) {
	if js.backend == schema.NoneBackend || js.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT entry_id, kind, action, target, repo_root, status, message, recorded_at
		FROM %s ORDER BY recorded_at DESC, entry_id`, quoteTableName(js.tableName, js.backend))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := js.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []schema.JournalEntry
	for rows.Next() {
		var (
			entry          schema.JournalEntry
			kind, status   string
			recordedMillis int64
		)
		if err := rows.Scan(&entry.ID, &kind, &entry.Action, &entry.Target, &entry.Root, &status, &entry.Message, &recordedMillis); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entry.Kind = schema.SourceName(kind)
		entry.Status = schema.ActionStatus(status)
		entry.RecordAt = time.UnixMilli(recordedMillis).UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetStatus returns status information about the journal.
func (js *JournalStoreImpl) GetStatus() (schema.JournalStatus, error) {
	status := schema.JournalStatus{
		Backend:   string(js.backend),
		Connected: js.db != nil,
	}
	if js.backend == schema.NoneBackend || js.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(js.tableName, js.backend)
	row := js.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	failedQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE status = %s", quotedTableName, placeholder(js.backend, 1))
	if err := js.db.QueryRow(failedQuery, string(schema.ActionFailed)).Scan(&status.FailedEntries); err != nil {
		return status, fmt.Errorf("failed to get failed entries: %w", err)
	}

	var lastMillis int64
	if err := js.db.QueryRow(fmt.Sprintf("SELECT MAX(recorded_at) FROM %s", quotedTableName)).Scan(&lastMillis); err != nil {
		return status, fmt.Errorf("failed to get last entry time: %w", err)
	}
	status.LastEntryTime = time.UnixMilli(lastMillis).UTC()
	return status, nil
}

// Close closes the underlying DB connection.
func (js *JournalStoreImpl) Close() error {
	if js.db != nil {
		return js.db.Close()
	}
	return nil
}
