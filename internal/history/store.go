// Package history records conversion runs in a SQLite database so past
// runs and their failed files can be listed later.
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

	"github.com/harrison/csvconv/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// RunSummary is one row of the runs table
type RunSummary struct {
	RunID      string
	Profile    string
	SourceRoot string
	DestRoot   string
	DryRun     bool
	Total      int
	Converted  int
	Copied     int
	Failed     int
	ScanErrors int
	StartedAt  time.Time
	Duration   time.Duration
}

// Succeeded returns the number of files converted or copied
func (r RunSummary) Succeeded() int {
	return r.Converted + r.Copied
}

// FileRecord is one failed file of a recorded run
type FileRecord struct {
	RelPath      string
	Outcome      models.Outcome
	Detected     string
	Confidence   int
	ErrorMessage string
}

// Store manages the SQLite run history
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A second connection to ":memory:" would be a different database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := execWithRetry(db, schemaSQL, 5, 10*time.Millisecond); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}

		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path the store was opened with
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores the run and one row per file result in a single transaction
func (s *Store) RecordRun(ctx context.Context, run *models.RunResult) error {
	if run == nil || run.RunID == "" {
		return fmt.Errorf("record run: missing run id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	started := run.StartedAt
	if started.IsZero() {
		started = time.Now()
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(run_id, profile, source_root, dest_root, dry_run, total, converted, copied, failed, scan_errors, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.Profile,
		run.SourceRoot,
		run.DestRoot,
		run.DryRun,
		run.Total,
		run.Converted,
		run.Copied,
		run.Failed,
		len(run.ScanErrors),
		started.UTC(),
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO file_results
		(run_id, rel_path, outcome, detected, confidence, target, error_message, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare file insert: %w", err)
	}
	defer stmt.Close()

	for _, fr := range run.Results {
		errMsg := ""
		if fr.Err != nil {
			errMsg = fr.Err.Error()
		}
		if _, err := stmt.ExecContext(ctx,
			run.RunID,
			fr.Task.RelPath,
			string(fr.Outcome),
			fr.Detected,
			fr.Confidence,
			fr.Target,
			errMsg,
			fr.Duration.Milliseconds(),
		); err != nil {
			return fmt.Errorf("insert file result %s: %w", fr.Task.RelPath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, most recent first
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `SELECT run_id, profile, source_root, dest_root, dry_run,
		total, converted, copied, failed, scan_errors, started_at, duration_ms
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var durationMS int64
		if err := rows.Scan(&r.RunID, &r.Profile, &r.SourceRoot, &r.DestRoot, &r.DryRun,
			&r.Total, &r.Converted, &r.Copied, &r.Failed, &r.ScanErrors, &r.StartedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// FailedFiles returns the failed files of a run in walk order
func (s *Store) FailedFiles(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT rel_path, outcome, COALESCE(detected, ''),
		COALESCE(confidence, 0), COALESCE(error_message, '')
		FROM file_results WHERE run_id = ? AND outcome = ? ORDER BY id`, runID, string(models.OutcomeFailed))
	if err != nil {
		return nil, fmt.Errorf("query failed files: %w", err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		var outcome string
		if err := rows.Scan(&f.RelPath, &outcome, &f.Detected, &f.Confidence, &f.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan file result: %w", err)
		}
		f.Outcome = models.Outcome(outcome)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file results: %w", err)
	}
	return files, nil
}
