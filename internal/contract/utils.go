package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	AddColor     = color.New(color.FgGreen)               // AddColor marks added entries.
	ChangeColor  = color.New(color.FgYellow)              // ChangeColor marks modified or renamed entries.
	DeleteColor  = color.New(color.FgRed)                 // DeleteColor marks deleted entries.
	UnknownColor = color.New(color.FgHiBlack)             // UnknownColor marks untracked entries.
	CurrentColor = color.New(color.FgGreen, color.Bold)   // CurrentColor marks the checked out branch.
	RemoteColor  = color.New(color.FgMagenta)             // RemoteColor marks remote branches.
	CommitColor  = color.New(color.FgYellow, color.Bold)  // CommitColor marks abbreviated commit hashes.
	MessageColor = color.New(color.FgCyan)                // MessageColor marks informational messages.
	ErrorColor   = color.New(color.FgRed, color.Bold)     // ErrorColor marks failed actions.
)

// ColorStatusSymbol applies the symbol color used for a status column.
func ColorStatusSymbol(symbol string) string {
	switch symbol {
	case "+":
		return AddColor.Sprint(symbol)
	case "-":
		return DeleteColor.Sprint(symbol)
	case "~", "→":
		return ChangeColor.Sprint(symbol)
	case "?":
		return UnknownColor.Sprint(symbol)
	default:
		return symbol
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for cache and journal storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitpick.db"
	}
	return filepath.Join(homeDir, ".gitpick.db")
}

// RelativePath returns path relative to root using forward slashes.
// Paths outside root are returned unchanged.
func RelativePath(root, path string) string {
	if root == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1", "y":
		return true, nil
	case "no", "false", "0", "n":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
