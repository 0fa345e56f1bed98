package stores

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// corruptionMessages are matched when the driver error has been flattened
// into a string by a wrapping layer.
var corruptionMessages = []string{
	"database disk image is malformed",
	"file is not a database",
}

// IsCorruptionError reports whether err means the board database file cannot
// be read as SQLite.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
			return true
		}
	}

	msg := err.Error()
	for _, m := range corruptionMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// RecoverFromCorruption renames the board database to
// <path>.corrupt.<timestamp>, taking its -wal and -shm files along so SQLite
// does not replay them into the fresh database. It returns the backup path,
// or "" when no database file existed.
func RecoverFromCorruption(dbPath string, now time.Time) (string, error) {
	backup := fmt.Sprintf("%s.corrupt.%s", dbPath, now.Format("20060102-150405"))

	if err := os.Rename(dbPath, backup); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("move corrupt board database: %w", err)
		}
		backup = ""
	}

	for _, suffix := range []string{"-wal", "-shm"} {
		sidecar := dbPath + suffix
		if _, err := os.Stat(sidecar); err != nil {
			continue
		}

		target := fmt.Sprintf("%s.corrupt.%s%s", dbPath, now.Format("20060102-150405"), suffix)
		if err := os.Rename(sidecar, target); err != nil {
			if rmErr := os.Remove(sidecar); rmErr != nil {
				return backup, fmt.Errorf("clear %s file: %w", suffix, err)
			}
		}
	}

	return backup, nil
}
