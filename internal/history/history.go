// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records batch outcomes in a SQLite database so repeated
// runs over the same directory can be audited. PINs are never stored.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/p12pem/pkg/types"
)

const defaultLimit = 20

// Run is one finished batch.
type Run struct {
	Directory  string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []types.Outcome
}

// Entry is a recorded outcome together with the run it belongs to.
type Entry struct {
	RunID     int64
	Directory string
	StartedAt time.Time
	types.Outcome
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			directory TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			stem TEXT NOT NULL,
			status TEXT NOT NULL,
			detail TEXT,
			encoding_failures INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_stem ON outcomes(stem)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores run and its outcomes in one transaction and returns the run ID.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (directory, started_at, finished_at) VALUES (?, ?, ?)`,
		run.Directory,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, stem, status, detail, encoding_failures) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range run.Outcomes {
		if _, err := stmt.ExecContext(ctx, runID, o.Stem, string(o.Status), o.Detail, o.EncodingFailures); err != nil {
			return 0, fmt.Errorf("inserting outcome for %s: %w", o.Stem, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Recent returns the latest outcomes for stem, newest first. An empty stem
// matches every pair. limit <= 0 uses a default of 20.
func (s *Store) Recent(ctx context.Context, stem string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.directory, r.started_at, o.stem, o.status, COALESCE(o.detail, ''), o.encoding_failures
		FROM outcomes o JOIN runs r ON r.id = o.run_id
		WHERE ? = '' OR o.stem = ?
		ORDER BY r.id DESC, o.rowid ASC
		LIMIT ?`, stem, stem, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			started string
			status  string
		)
		if err := rows.Scan(&e.RunID, &e.Directory, &started, &e.Stem, &status, &e.Detail, &e.EncodingFailures); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Status = types.Status(status)
		if e.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parsing run time %q: %w", started, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
