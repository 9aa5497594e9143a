package services

import (
	"errors"
	"strings"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrStorageFull is returned when the underlying database rejects a write
// for capacity. The caller must surface a retryable message and must not
// mark the record as saved.
var ErrStorageFull = errors.New("storage full")

// ErrNotFound is returned by lookups for ids that are not in the store.
// Update and delete paths treat a missing record as a benign no-op instead.
var ErrNotFound = errors.New("record not found")

// isStorageFull reports whether a write failed because the database is out
// of capacity (SQLITE_FULL).
func isStorageFull(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_FULL {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "database or disk is full")
}
