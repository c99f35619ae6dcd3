package iocache

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/gitpick/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals allows InitCaching and CloseCaching to run again.
func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
}

func TestCaching(t *testing.T) {
	t.Run("sqlite with journal", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "gitpick.db")

		require.NoError(t, InitCaching(schema.SQLiteBackend, dbPath, true))
		assert.NotNil(t, Manager.GetTreeStore())
		assert.NotNil(t, Manager.GetJournalStore())
		CloseCaching()

		_, err := os.Stat(dbPath)
		assert.NoError(t, err, "Database file should be created")
	})

	t.Run("journal disabled", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "gitpick.db")

		require.NoError(t, InitCaching(schema.SQLiteBackend, dbPath, false))
		assert.NotNil(t, Manager.GetTreeStore())
		assert.Nil(t, Manager.GetJournalStore())
		CloseCaching()
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "gitpick.db")

		// Multiple initializations should be safe (sync.Once)
		assert.NoError(t, InitCaching(schema.SQLiteBackend, dbPath, true))
		assert.NoError(t, InitCaching(schema.SQLiteBackend, dbPath, true))

		// Multiple closes should be safe (sync.Once)
		CloseCaching()
		CloseCaching()
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetGlobals(t)
		err := InitCaching("redis", "", false)
		assert.ErrorContains(t, err, "failed to initialize tree caching")
		assert.Nil(t, Manager.GetTreeStore())
	})

	t.Run("none backend", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitCaching(schema.NoneBackend, "", true))

		store := Manager.GetTreeStore()
		require.NotNil(t, store)
		_, _, _, err := store.Get("key")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, store.Set("key", []byte("value"), 1, 1))

		journal := Manager.GetJournalStore()
		require.NotNil(t, journal)
		assert.NoError(t, journal.Record(schema.JournalEntry{ID: "x"}))
		entries, err := journal.List(10)
		assert.NoError(t, err)
		assert.Empty(t, entries)
		CloseCaching()
	})
}

// TestValidateTableName tests the validateTableName function with various inputs.
func TestValidateTableName(t *testing.T) {
	tests := []struct {
		tableName string
		wantErr   bool
	}{
		{"tree_cache", false},
		{"_journal", false},
		{"Journal_2", false},
		{"", true},
		{"2cache", true},
		{"tree-cache", true},
		{"tree cache", true},
		{"tree.cache", true},
		{"tree'; DROP TABLE users; --", true},
	}

	for _, tt := range tests {
		t.Run(tt.tableName, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err, "validateTableName should error for %q", tt.tableName)
			} else {
				assert.NoError(t, err, "validateTableName should not error for %q", tt.tableName)
			}
		})
	}
}

// TestQuoteTableNameAndPlaceholder tests the dialect helpers for all backends.
func TestQuoteTableNameAndPlaceholder(t *testing.T) {
	assert.Equal(t, `"tree_cache"`, quoteTableName("tree_cache", schema.SQLiteBackend))
	assert.Equal(t, "`tree_cache`", quoteTableName("tree_cache", schema.MySQLBackend))
	assert.Equal(t, `"tree_cache"`, quoteTableName("tree_cache", schema.PostgreSQLBackend))

	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
}

// TestSQLiteCacheStore tests the full lifecycle of the SQLite tree cache.
func TestSQLiteCacheStore(t *testing.T) {
	store, err := NewCacheStore(treeTable, schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("ls-tree:missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	listing := []byte("100644 blob abc\tREADME.md\n")
	require.NoError(t, store.Set("ls-tree:abc", listing, 1, 1000))
	require.NoError(t, store.Set("ls-tree:abc", listing, 2, 2000))
	require.NoError(t, store.Set("ls-tree:def", []byte("x"), 1, 500))

	value, version, ts, err := store.Get("ls-tree:abc")
	require.NoError(t, err)
	assert.Equal(t, listing, value)
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(2000), ts)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, time.Unix(2000, 0), status.LastEntryTime)
	assert.Equal(t, time.Unix(500, 0), status.OldestEntryTime)
	assert.Positive(t, status.TableSizeBytes)
}

// TestSQLiteJournalStore tests recording and listing journal entries.
func TestSQLiteJournalStore(t *testing.T) {
	store, err := NewJournalStore(journalTable, schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalEntries)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []schema.JournalEntry{
		{ID: "1", Kind: schema.GitBranchSource, Action: "checkout", Target: "main", Root: "/repo", Status: schema.ActionOK, RecordAt: base},
		{ID: "2", Kind: schema.GitLogSource, Action: "reset", Target: "1a2b3c4", Root: "/repo", Status: schema.ActionFailed, Message: "boom", RecordAt: base.Add(time.Minute)},
		{ID: "3", Kind: schema.GitStatusSource, Action: "add", Target: "a.go b.go", Root: "/repo", Status: schema.ActionSkipped, RecordAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, store.Record(e))
	}

	listed, err := store.List(2)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "3", listed[0].ID)
	assert.Equal(t, "2", listed[1].ID)
	assert.Equal(t, "boom", listed[1].Message)
	assert.Equal(t, schema.GitLogSource, listed[1].Kind)
	assert.Equal(t, base.Add(time.Minute), listed[1].RecordAt)

	all, err := store.List(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalEntries)
	assert.Equal(t, 1, status.FailedEntries)
	assert.Equal(t, base.Add(2*time.Minute), status.LastEntryTime)

	// Duplicate ids are rejected
	assert.Error(t, store.Record(entries[0]))
}

// TestClearCache tests clearing per backend.
func TestClearCache(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "gitpick.db")
	store, err := NewCacheStore(treeTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine
	assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	assert.Error(t, ClearCache("redis", "", ""))
}

// TestMigrateJournal tests migrations on SQLite.
func TestMigrateJournal(t *testing.T) {
	_, err := MigrateJournal(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")

	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	msg, err := MigrateJournal(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "to version 2")

	msg, err = MigrateJournal(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "No migration needed")

	_, err = MigrateJournal(schema.SQLiteBackend, dbPath, 1)
	require.NoError(t, err)
	_, err = MigrateJournal(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	_, err = MigrateJournal(schema.SQLiteBackend, dbPath, 2)
	require.NoError(t, err)

	// The migrated table is usable by the store
	store, err := NewJournalStore(journalTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	assert.NoError(t, store.Record(schema.JournalEntry{ID: "m", Kind: schema.GitFilesSource, Action: "open", Status: schema.ActionOK}))
}

// TestExportJournal tests exporting the journal to Parquet.
func TestExportJournal(t *testing.T) {
	store, err := NewJournalStore(journalTable, schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	var out bytes.Buffer
	outputFile := filepath.Join(t.TempDir(), "journal.parquet")

	assert.ErrorContains(t, ExportJournal(&out, store, ""), "--output-file is required")
	assert.ErrorContains(t, ExportJournal(&out, nil, outputFile), "journal is disabled")
	assert.ErrorContains(t, ExportJournal(&out, store, outputFile), "no journal entries")

	require.NoError(t, store.Record(schema.JournalEntry{ID: "1", Kind: schema.GitBranchSource, Action: "checkout", Status: schema.ActionOK}))
	require.NoError(t, ExportJournal(&out, store, outputFile))
	assert.Contains(t, out.String(), "Exported 1 journal entries from sqlite backend")

	info, err := os.Stat(outputFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

// TestPrintStatus tests the status printers.
func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintJournalStatus(&buf, schema.JournalStatus{
		Backend:       "sqlite",
		Connected:     true,
		TotalEntries:  4,
		FailedEntries: 1,
		LastEntryTime: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	assert.Contains(t, buf.String(), "Failed Entries: 1\n")
	assert.Contains(t, buf.String(), "Last Entry: 2026-01-02 03:04:05\n")
}
