package store

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "bookclub"

// DefaultDataDir returns where progress and config live when neither
// BOOKCLUB_DIR nor --dir is given: the platform's per-user data directory
// with a "bookclub" subdirectory.
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	var base string
	switch goos {
	case "darwin":
		base = filepath.Join(home, "Library", "Application Support")
	case "windows":
		base = firstEnv("LOCALAPPDATA", "APPDATA")
		if base == "" {
			base = home
		}
	default:
		base = firstEnv("XDG_DATA_HOME")
		if base == "" {
			base = filepath.Join(home, ".local", "share")
		}
	}
	return filepath.Join(base, appName)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
