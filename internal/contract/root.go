package contract

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNoRepository is returned when no enclosing git repository exists.
var ErrNoRepository = errors.New("not inside a git repository")

// FindRepositoryRoot walks up from startPath to the nearest directory that
// contains a .git entry. A .git file counts too, so worktrees and submodules
// resolve to their own checkout. It reports false when the filesystem root is
// reached first.
func FindRepositoryRoot(startPath string) (string, bool) {
	if startPath == "" {
		return "", false
	}
	path, err := filepath.Abs(startPath)
	if err != nil {
		return "", false
	}
	path = filepath.Clean(path)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		path = filepath.Dir(path)
	}

	for {
		if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
			return path, true
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", false
		}
		path = parent
	}
}

// GitDir returns the .git path of a repository root.
func GitDir(root string) string {
	return filepath.Join(root, ".git")
}
