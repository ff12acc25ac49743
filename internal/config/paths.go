package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the Goatplan data directory.
// - Windows: %APPDATA%\goatplan
// - Other OS: ~/.goatplan
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "goatplan")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".goatplan"
	}
	return filepath.Join(home, ".goatplan")
}

// DBPath returns the path to the SQLite database file.
func DBPath() string {
	return filepath.Join(DataDir(), "goatplan.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
