package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"oggfix/internal/batch"
)

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk location of the database.
func (s *Store) Path() string {
	return s.path
}

// RecordRun stores a completed batch summary and returns the run ID.
func (s *Store) RecordRun(ctx context.Context, summary *batch.Summary) (string, error) {
	if summary == nil {
		return "", errors.New("summary required")
	}
	ctx = ensureContext(ctx)
	runID := uuid.NewString()

	err := retryOnBusy(ctx, func() error {
		return s.insertRun(ctx, runID, summary)
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) insertRun(ctx context.Context, runID string, summary *batch.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, root, recursive, dry_run, found, succeeded, failed, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		summary.Root,
		boolToInt(summary.Recursive),
		boolToInt(summary.DryRun),
		summary.Found,
		summary.Succeeded,
		summary.Failed,
		summary.StartedAt.UTC().Format(time.RFC3339Nano),
		summary.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, result := range summary.Results {
		detail := ""
		if result.Err != nil {
			detail = result.Err.Error()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO file_results (run_id, path, reason, detail) VALUES (?, ?, ?, ?)`,
			runID, result.Path, string(result.Reason), detail,
		); err != nil {
			return fmt.Errorf("insert file result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Run is one stored batch run.
type Run struct {
	ID         string
	Root       string
	Recursive  bool
	DryRun     bool
	Found      int
	Succeeded  int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// FileResult is one stored per-file outcome.
type FileResult struct {
	Path   string
	Reason string
	Detail string
}

// RecentRuns returns up to limit runs, newest first. Limit <= 0 defaults to 20.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}

	var rows *sql.Rows
	err := retryOnBusy(ctx, func() error {
		var queryErr error
		rows, queryErr = s.db.QueryContext(ctx,
			`SELECT id, root, recursive, dry_run, found, succeeded, failed, started_at, finished_at
			 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
		return queryErr
	})
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                   Run
			recursive, dryRun     int
			startedAt, finishedAt string
		)
		if err := rows.Scan(&run.ID, &run.Root, &recursive, &dryRun,
			&run.Found, &run.Succeeded, &run.Failed, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Recursive = recursive != 0
		run.DryRun = dryRun != 0
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// FileResults returns the per-file outcomes for one run.
func (s *Store) FileResults(ctx context.Context, runID string) ([]FileResult, error) {
	ctx = ensureContext(ctx)

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, reason, detail FROM file_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query file results: %w", err)
	}
	defer rows.Close()

	var results []FileResult
	for rows.Next() {
		var result FileResult
		if err := rows.Scan(&result.Path, &result.Reason, &result.Detail); err != nil {
			return nil, fmt.Errorf("scan file result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file results: %w", err)
	}
	return results, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
