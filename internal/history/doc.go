// Package history keeps a local log of manifest fetches in SQLite.
//
// With --save, every fetch outcome is appended: when it happened, the URL,
// whether it succeeded, the site title, the item count and a fingerprint of
// the manifest body. `sitescope history` reads the log back and tells
// whether a site's manifest changed between its two latest successful
// fetches.
//
// The log is write-only from the fetch path. A fetch never reads it, so it
// can never serve stale data in place of a live request.
//
// Design decision: SQLite through modernc.org/sqlite keeps the store a single
// file under the XDG data directory and needs no CGO. Rows are keyed by ULID
// so ordering by key is ordering by insertion time.
package history
