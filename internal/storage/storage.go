// Package storage persists the presets and settings snapshot.
//
// Every store validates a snapshot before writing it and drops invalid ones
// without touching the previous data. Loading never fails hard: missing or
// invalid data yields the compiled-in defaults, with the reason returned as
// an error for logging.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Drivers understood by Open.
const (
	DriverYAML   = "yaml"
	DriverSQLite = "sqlite"
)

// ErrUnknownDriver indicates an unsupported store driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

const timestampLayout = time.RFC3339Nano

// DefaultPath returns the snapshot location under the user config directory.
func DefaultPath(appName, driver string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	fileName := "state.yaml"
	if driver == DriverSQLite {
		fileName = "state.db"
	}
	return filepath.Join(configDir, appName, fileName), nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return nil
}

func formatTimestamp(value time.Time) string {
	return value.UTC().Format(timestampLayout)
}

func parseTimestamp(value string) (time.Time, error) {
	parsed, err := time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}
