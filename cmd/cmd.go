// Package cmd defines the command-line interface for gitpick.
package cmd

import (
	"errors"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errJournalDisabled = errors.New("action journal is disabled. Enable it with --journal")

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(changedCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)
	cacheCmd.AddCommand(cacheExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("input", "i", "", "Pattern used to filter candidates")
	rootCmd.PersistentFlags().String("matcher", "", "Matcher: matcher_fuzzy or matcher_regexp (default depends on the source)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display (0 = unlimited)")
	rootCmd.PersistentFlags().String("cwd", "", "Working directory of the query (defaults to the current directory)")
	rootCmd.PersistentFlags().String("buffer", "", "Path of the buffer being edited")
	rootCmd.PersistentFlags().String("buftype", "", "'buftype' of the buffer being edited")
	rootCmd.PersistentFlags().Int("window", 0, "Id of the window the picker was started from")
	rootCmd.PersistentFlags().String("preview", "", "Buffer name shown in the preview window, if any")
	rootCmd.PersistentFlags().StringArray("answer", nil, "Answer to the next action prompt (repeatable)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string (SQLite file, or e.g. user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("journal", "yes", "Record action runs in the journal (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Source arguments of action subcommands are not configuration
	for _, sourceCmd := range []*cobra.Command{branchCmd, statusCmd, logCmd, changedCmd, filesCmd} {
		sourceCmd.PersistentFlags().StringArray("arg", nil, "Source argument used to resolve targets (repeatable)")
	}

	// Bind all flags of logCmd to Viper
	logCmd.PersistentFlags().String("initial-wait", "", "Time to wait for the first log lines (e.g. 500ms)")
	logCmd.PersistentFlags().String("poll-wait", "", "Time to wait on each later poll (e.g. 30ms)")
	logCmd.PersistentFlags().StringArray("log-options", nil, "Options passed to git log (repeatable, replaces the defaults)")
	if err := viper.BindPFlags(logCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding log flags", err)
	}

	// Bind all flags of filesCmd to Viper
	filesCmd.PersistentFlags().String("ref", contract.DefaultFilesRef, "Tree-ish whose files are listed")
	if err := viper.BindPFlags(filesCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding files flags", err)
	}

	// Bind all flags of changedCmd to Viper
	changedCmd.PersistentFlags().String("hunks", "", "Hunks of the buffer as 'oldStart,oldCount,newStart,newCount;...'")
	if err := viper.BindPFlags(changedCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding changed flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
