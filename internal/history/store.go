package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/sitescope/internal/model"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the database file name inside the data directory.
const FileName = "sitescope.db"

// Store is the fetch log.
type Store struct {
	db   *sql.DB
	path string
}

// Options configures Open.
type Options struct {
	// CreateIfNotExists creates the directory and file when missing.
	CreateIfNotExists bool

	// EnableWAL turns on write-ahead logging.
	EnableWAL bool
}

// DefaultOptions creates the database on demand with WAL enabled.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens the store in dir.
func Open(dir string, opts Options) (*Store, error) {
	path := filepath.Join(dir, FileName)

	mode := "rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		mode = "rwc"
	} else if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
		}
		return nil, fmt.Errorf("failed to check history database: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// one writer at a time; batch fetches record concurrently
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, path: path}

	ctx := context.Background()
	if opts.EnableWAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // already failing
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createTables(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS fetches (
		id TEXT PRIMARY KEY,
		target TEXT NOT NULL,
		url TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		item_count INTEGER NOT NULL DEFAULT 0,
		manifest_hash TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_url ON fetches(url, id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Entry is one recorded fetch.
type Entry struct {
	ID           string        `json:"id"`
	Target       string        `json:"target"`
	URL          string        `json:"url"`
	FetchedAt    time.Time     `json:"fetched_at"`
	Duration     time.Duration `json:"duration"`
	Status       model.Status  `json:"status"`
	Title        string        `json:"title,omitempty"`
	ItemCount    int           `json:"item_count"`
	ManifestHash string        `json:"manifest_hash,omitempty"`
	ErrorMessage string        `json:"error,omitempty"` //nolint:tagliatelle // matches SiteReport
}

// Record appends report. Reports without a URL (empty input) are skipped:
// there is nothing to key them by.
func (s *Store) Record(ctx context.Context, report *model.SiteReport) error {
	if report.URL == "" {
		return nil
	}

	duration := report.Duration
	if duration == 0 {
		duration = time.Since(report.FetchedAt)
	}
	title := ""
	if report.Display != nil {
		title = report.Display.Title
	}

	const query = `
	INSERT INTO fetches (id, target, url, fetched_at, duration_ms, status, title, item_count, manifest_hash, error_message)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		ulid.Make().String(),
		report.Target,
		report.URL,
		report.FetchedAt.UTC().Format(time.RFC3339Nano),
		duration.Milliseconds(),
		report.Status.String(),
		title,
		report.ItemCount,
		report.ManifestHash,
		report.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to record fetch: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, target, url, fetched_at, duration_ms, status, title, item_count, manifest_hash, error_message FROM fetches`

// List returns entries newest first. An empty url lists every URL. A
// non-positive limit means no limit.
func (s *Store) List(ctx context.Context, url string, limit int) ([]Entry, error) {
	query := selectColumns
	args := make([]any, 0, 2)
	if url != "" {
		query += " WHERE url = ?"
		args = append(args, url)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// ListURLs returns every recorded URL in lexical order.
func (s *Store) ListURLs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT url FROM fetches ORDER BY url")
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan URL: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// Latest returns the newest entry for url.
func (s *Store) Latest(ctx context.Context, url string) (*Entry, error) {
	entries, err := s.List(ctx, url, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	return &entries[0], nil
}

// Change compares the two latest successful fetches of a URL.
type Change struct {
	URL      string `json:"url"`
	Previous Entry  `json:"previous"`
	Current  Entry  `json:"current"`
	Changed  bool   `json:"changed"`
}

// Changed reports whether the manifest of url differs between its two
// latest successful fetches. Failed fetches in between are ignored.
func (s *Store) Changed(ctx context.Context, url string) (*Change, error) {
	entries, err := s.query(ctx,
		selectColumns+" WHERE url = ? AND status = ? ORDER BY id DESC LIMIT 2",
		url, model.StatusSucceeded.String(),
	)
	if err != nil {
		return nil, err
	}
	if len(entries) < 2 {
		return nil, fmt.Errorf("%w: %s has %d", ErrNotEnoughHistory, url, len(entries))
	}
	return &Change{
		URL:      url,
		Current:  entries[0],
		Previous: entries[1],
		Changed:  entries[0].ManifestHash != entries[1].ManifestHash,
	}, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			fetchedAt  string
			durationMS int64
			status     string
		)
		if err := rows.Scan(&e.ID, &e.Target, &e.URL, &fetchedAt, &durationMS, &status,
			&e.Title, &e.ItemCount, &e.ManifestHash, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.FetchedAt = parseTimestamp(fetchedAt)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		if e.Status, err = model.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("invalid status in history row %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// parseTimestamp parses stored times. Rows written by this package use
// RFC 3339; the SQLite layout covers rows edited by hand.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
