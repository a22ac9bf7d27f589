package history

import "errors"

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("no history for this URL")

	// ErrNotEnoughHistory is returned by Changed when fewer than two
	// successful fetches are recorded.
	ErrNotEnoughHistory = errors.New("need at least two successful fetches to compare")

	// ErrDatabaseNotFound is returned by Open when the file is missing and
	// creation is disabled.
	ErrDatabaseNotFound = errors.New("history database not found")
)
