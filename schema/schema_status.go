package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// JournalStatus represents the status of the action journal.
type JournalStatus struct {
	Backend       string    `json:"backend"`
	Connected     bool      `json:"connected"`
	TotalEntries  int       `json:"total_entries"`
	FailedEntries int       `json:"failed_entries"`
	LastEntryTime time.Time `json:"last_entry_time"`
}

// JournalEntry is one recorded action run.
type JournalEntry struct {
	ID       string       `json:"id"`
	Kind     SourceName   `json:"kind"`
	Action   string       `json:"action"`
	Target   string       `json:"target"`
	Root     string       `json:"root"`
	Status   ActionStatus `json:"status"`
	Message  string       `json:"message,omitempty"`
	RecordAt time.Time    `json:"recorded_at"`
}
