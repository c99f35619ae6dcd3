package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitpick/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 0 // 0 means unlimited
	MaxResultLimit     = 100000
	DefaultFilesRef    = "HEAD"
)

// Config holds the runtime configuration for a source query or action.
// This struct remains the "final, validated" config.
type Config struct {
	Cwd      string // Absolute working directory of the query
	RepoPath string // Repository root, empty when Cwd is outside a repository

	Buffer   string // Absolute path of the current editor buffer
	BufType  string // 'buftype' of the current buffer, empty for normal files
	WindowID int    // Window the query was started from
	Preview  string // Buffer name shown in the preview window, if any
	Hunks    []schema.Hunk

	Input   string
	Matcher schema.MatcherName // Empty means the source default
	Limit   int

	InitialWait time.Duration
	PollWait    time.Duration
	LogOptions  []string
	FilesRef    string

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Answers    []string // Pre-supplied answers to action prompts

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	Journal        bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	CwdStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output         string   `mapstructure:"output"`
	OutputFile     string   `mapstructure:"output-file"`
	Width          int      `mapstructure:"width"`
	Color          string   `mapstructure:"color"`
	Matcher        string   `mapstructure:"matcher"`
	Input          string   `mapstructure:"input"`
	Limit          int      `mapstructure:"limit"`
	Buffer         string   `mapstructure:"buffer"`
	BufType        string   `mapstructure:"buftype"`
	Window         int      `mapstructure:"window"`
	Preview        string   `mapstructure:"preview"`
	Answers        []string `mapstructure:"answer"`
	CacheBackend   string   `mapstructure:"cache-backend"`
	CacheDBConnect string   `mapstructure:"cache-db-connect"`
	Journal        string   `mapstructure:"journal"`

	// --- Fields from logCmd.Flags() ---
	InitialWait string   `mapstructure:"initial-wait"`
	PollWait    string   `mapstructure:"poll-wait"`
	LogOptions  []string `mapstructure:"log-options"`

	// --- Fields from filesCmd.Flags() ---
	FilesRef string `mapstructure:"ref"`

	// --- Fields from changedCmd.Flags() ---
	Hunks string `mapstructure:"hunks"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Hunks = slices.Clone(c.Hunks)
	clone.LogOptions = slices.Clone(c.LogOptions)
	clone.Answers = slices.Clone(c.Answers)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWaits(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveRepository(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the storage backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	journal := input.Journal
	if journal == "" {
		journal = "yes"
	}
	enabled, err := ParseBoolString(journal)
	if err != nil {
		return fmt.Errorf("invalid --journal value: %w", err)
	}
	cfg.Journal = enabled && cfg.CacheBackend != schema.NoneBackend
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Input = input.Input
	cfg.BufType = input.BufType
	cfg.WindowID = input.Window
	cfg.Preview = input.Preview
	cfg.Answers = slices.Clone(input.Answers)

	color := input.Color
	if color == "" {
		color = "yes"
	}
	colors, err := ParseBoolString(color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Limit Validation ---
	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	// --- 2. Output Validation ---
	output := input.Output
	if output == "" {
		output = string(schema.TextOut)
	}
	cfg.Output = schema.OutputMode(strings.ToLower(output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Matcher Validation ---
	cfg.Matcher = schema.MatcherName(strings.ToLower(input.Matcher))
	if cfg.Matcher != "" {
		if _, ok := schema.ValidMatchers[cfg.Matcher]; !ok {
			return fmt.Errorf("invalid matcher '%s'. must be matcher_fuzzy, matcher_regexp", input.Matcher)
		}
	}

	// --- 4. Source options ---
	cfg.FilesRef = strings.TrimSpace(input.FilesRef)
	if cfg.FilesRef == "" {
		cfg.FilesRef = DefaultFilesRef
	}
	cfg.LogOptions = slices.Clone(input.LogOptions)
	if len(cfg.LogOptions) == 0 {
		cfg.LogOptions = slices.Clone(schema.DefaultLogOptions)
	}

	hunks, err := ParseHunks(input.Hunks)
	if err != nil {
		return fmt.Errorf("invalid --hunks value: %w", err)
	}
	cfg.Hunks = hunks

	return nil
}

// processWaits parses the poll wait durations.
func processWaits(cfg *Config, input *ConfigRawInput) error {
	parse := func(name, raw string, def time.Duration) (time.Duration, error) {
		if raw == "" {
			return def, nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid --%s value '%s': %w", name, raw, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("--%s must be positive (received %s)", name, raw)
		}
		return d, nil
	}

	var err error
	if cfg.InitialWait, err = parse("initial-wait", input.InitialWait, schema.DefaultInitialWait); err != nil {
		return err
	}
	if cfg.PollWait, err = parse("poll-wait", input.PollWait, schema.DefaultPollWait); err != nil {
		return err
	}
	return nil
}

// resolveRepository resolves the working directory, the current buffer and the repository root.
// Being outside a repository is not an error: sources then yield no candidates.
func resolveRepository(cfg *Config, input *ConfigRawInput) error {
	searchPath := input.CwdStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	if info, statErr := os.Stat(absSearchPath); statErr == nil && !info.IsDir() {
		if input.Buffer == "" {
			input.Buffer = absSearchPath
		}
		absSearchPath = filepath.Dir(absSearchPath)
	}
	cfg.Cwd = absSearchPath

	if input.Buffer != "" {
		buf := input.Buffer
		if !filepath.IsAbs(buf) {
			buf = filepath.Join(cfg.Cwd, buf)
		}
		cfg.Buffer = filepath.Clean(buf)
	}

	if root, ok := FindRepositoryRoot(cfg.Cwd); ok {
		cfg.RepoPath = root
	}
	return nil
}

// ParseHunks parses hunks written as "oldStart,oldCount,newStart,newCount"
// and separated by ';'.
func ParseHunks(s string) ([]schema.Hunk, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var hunks []schema.Hunk
	for part := range strings.SplitSeq(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("invalid hunk '%s', expected 'oldStart,oldCount,newStart,newCount'", part)
		}
		var nums [4]int
		for i, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid hunk number '%s' in '%s'", f, part)
			}
			nums[i] = n
		}
		hunks = append(hunks, schema.Hunk{OldStart: nums[0], OldCount: nums[1], NewStart: nums[2], NewCount: nums[3]})
	}
	return hunks, nil
}
