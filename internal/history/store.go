// Package history records finished export runs in a local SQLite database.
//
// The history is advisory: the exported file tree stays the authoritative
// record of what succeeded, and the engine never consults the database for
// skip decisions. It exists so `whimsical-exporter history` can answer
// "when did I last run this, and how much did it export".
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Run is one recorded export run.
type Run struct {
	ID             string
	RootURL        string
	Formats        string
	StartedAt      time.Time
	FinishedAt     time.Time
	BoardsExported int
	BoardsSkipped  int
	EmptyBoards    int
	FormatFailures int
	Status         string
}

// Run status values.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Store manages the SQLite database holding run history.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a Store and initializes the database schema.
func NewStore(dbPath string) (*Store, error) {
	// Handle in-memory database
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	// Ensure parent directory exists for file-based databases
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return openAndInitStore(dbPath)
}

// openAndInitStore opens the database connection and initializes schema
func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure SQLite for concurrent access with retry logic.
	// Set busy_timeout FIRST so subsequent operations wait on locks.
	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := execWithRetry(db, schemaSQL, 5, 10*time.Millisecond); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on
// lock errors that can occur during concurrent initialization of the same
// database file.
func execWithRetry(db *sql.DB, query string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(query)
		if err == nil {
			return nil
		}

		// Only retry on "database is locked" errors
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun inserts a finished run.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	query := `INSERT INTO runs
		(id, root_url, formats, started_at, finished_at, boards_exported, boards_skipped, empty_boards, format_failures, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.RootURL,
		run.Formats,
		run.StartedAt,
		run.FinishedAt,
		run.BoardsExported,
		run.BoardsSkipped,
		run.EmptyBoards,
		run.FormatFailures,
		run.Status,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, most recent first. A limit of 0 means
// no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, root_url, formats, started_at, finished_at,
		boards_exported, boards_skipped, empty_boards, format_failures, status
		FROM runs ORDER BY started_at DESC`

	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID,
			&run.RootURL,
			&run.Formats,
			&run.StartedAt,
			&run.FinishedAt,
			&run.BoardsExported,
			&run.BoardsSkipped,
			&run.EmptyBoards,
			&run.FormatFailures,
			&run.Status,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
