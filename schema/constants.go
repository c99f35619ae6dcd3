package schema

import "time"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// SourceName identifies a candidate source.
	SourceName string

	// MatcherName identifies how candidates are filtered by the input pattern.
	MatcherName string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// ActionStatus is the outcome recorded for an action run.
	ActionStatus string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All sources supported.
const (
	GitLogSource     SourceName = "gitlog"
	GitStatusSource  SourceName = "gitstatus"
	GitBranchSource  SourceName = "gitbranch"
	GitChangedSource SourceName = "gitchanged"
	GitFilesSource   SourceName = "gitfiles"
)

// All matchers supported.
const (
	FuzzyMatcher  MatcherName = "matcher_fuzzy" // default
	RegexpMatcher MatcherName = "matcher_regexp"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All action outcomes.
const (
	ActionOK      ActionStatus = "ok"
	ActionFailed  ActionStatus = "failed"
	ActionSkipped ActionStatus = "skipped"
)

// Polling cadence used by streaming sources.
const (
	DefaultInitialWait = 500 * time.Millisecond
	DefaultPollWait    = 30 * time.Millisecond
)

// DefaultLogOptions are the git log options used by the gitlog source.
var DefaultLogOptions = []string{
	"--graph", "--no-color",
	"--pretty=format:'%h -%d %s (%cr) <%an>'",
	"--abbrev-commit", "--date=relative",
}

// AllSources lists every source in display order.
var AllSources = []SourceName{GitBranchSource, GitStatusSource, GitLogSource, GitChangedSource, GitFilesSource}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidMatchers lists all valid matchers.
var ValidMatchers = map[MatcherName]struct{}{
	FuzzyMatcher:  {},
	RegexpMatcher: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
