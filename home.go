package chainplan

import (
	"os"
	"path/filepath"
)

// Home returns the chainplan home directory.
// It defaults to ~/.chainplan but can be overridden with the CHAINPLAN_HOME
// environment variable.
func Home() string {
	if v := os.Getenv("CHAINPLAN_HOME"); v != "" {
		return v
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chainplan")
}

// DefaultHistoryPath returns the default run-history database path
// (~/.chainplan/history.db).
func DefaultHistoryPath() string {
	return filepath.Join(Home(), "history.db")
}

// EnsureHome creates the chainplan home directory if it doesn't exist.
func EnsureHome() error {
	return os.MkdirAll(Home(), 0o755)
}
