// ABOUTME: SQLite database layer for publish run persistence.
// ABOUTME: Records runs with per-step outcomes and supports querying.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle and exposes helpers for persistence operations.
type Store struct {
	sql *sql.DB
}

// RunRecord mirrors the runs table schema.
type RunRecord struct {
	ID            int64        `json:"id"`
	RemoteURL     string       `json:"remote_url"`
	Branch        string       `json:"branch"`
	CommitMessage string       `json:"commit_message"`
	CommitHash    string       `json:"commit_hash,omitempty"`
	Initialized   bool         `json:"initialized"`
	Clean         bool         `json:"clean"`
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    time.Time    `json:"finished_at"`
	Steps         []StepRecord `json:"steps,omitempty"`
}

// StepRecord mirrors the steps table.
type StepRecord struct {
	ID      int64     `json:"id"`
	RunID   int64     `json:"run_id"`
	Seq     int       `json:"seq"`
	Name    string    `json:"name"`
	Command string    `json:"command"`
	Error   string    `json:"error,omitempty"`
	RanAt   time.Time `json:"ran_at"`
}

// Open creates (if necessary) and opens the SQLite database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("configuring sqlite: %w", err)
	}

	store := &Store{sql: conn}
	if err := store.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return store, nil
}

// Close releases the underlying SQL handle.
func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
            id INTEGER PRIMARY KEY,
            remote_url TEXT NOT NULL,
            branch TEXT NOT NULL,
            commit_message TEXT NOT NULL,
            commit_hash TEXT,
            initialized INTEGER DEFAULT 0,
            clean INTEGER DEFAULT 0,
            started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            finished_at DATETIME
        );`,
		`CREATE TABLE IF NOT EXISTS steps (
            id INTEGER PRIMARY KEY,
            run_id INTEGER NOT NULL REFERENCES runs(id),
            seq INTEGER NOT NULL,
            name TEXT NOT NULL,
            command TEXT,
            error TEXT,
            ran_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_steps_run_id ON steps(run_id);`,
	}

	for _, stmt := range stmts {
		if _, err := s.sql.Exec(stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}

	return nil
}

// LogRun persists a run together with its steps in one transaction and
// returns the new run ID.
func (s *Store) LogRun(ctx context.Context, rec RunRecord) (int64, error) {
	if s == nil || s.sql == nil {
		return 0, errors.New("database not initialized")
	}

	started := rec.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	finished := rec.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (remote_url, branch, commit_message, commit_hash, initialized, clean, started_at, finished_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		rec.RemoteURL,
		rec.Branch,
		rec.CommitMessage,
		rec.CommitHash,
		boolToInt(rec.Initialized),
		boolToInt(rec.Clean),
		started.UTC(),
		finished.UTC(),
	)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO steps (run_id, seq, name, command, error, ran_at) VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare step insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, step := range rec.Steps {
		ranAt := step.RanAt
		if ranAt.IsZero() {
			ranAt = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, runID, step.Seq, step.Name, step.Command, step.Error, ranAt.UTC()); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert step: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}

	return runID, nil
}

// QueryRuns returns persisted runs applying the optional filters, newest
// first, with their steps attached.
func (s *Store) QueryRuns(ctx context.Context, limit int, since *time.Time, search string) ([]RunRecord, error) {
	if s == nil || s.sql == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	clauses := []string{"1=1"}
	args := []interface{}{}

	if since != nil && !since.IsZero() {
		clauses = append(clauses, "started_at >= ?")
		args = append(args, since.UTC())
	}

	if search != "" {
		like := fmt.Sprintf("%%%s%%", search)
		clauses = append(clauses, "(remote_url LIKE ? OR commit_message LIKE ?)")
		args = append(args, like, like)
	}

	query := fmt.Sprintf(`SELECT id, remote_url, branch, commit_message, commit_hash, initialized, clean, started_at, finished_at
        FROM runs
        WHERE %s
        ORDER BY started_at DESC, id DESC
        LIMIT ?;`, strings.Join(clauses, " AND "))
	args = append(args, limit)

	rows, err := s.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []RunRecord
	for rows.Next() {
		var rec RunRecord
		var hash sql.NullString
		var initialized, clean int
		var finished sql.NullTime
		if err := rows.Scan(
			&rec.ID,
			&rec.RemoteURL,
			&rec.Branch,
			&rec.CommitMessage,
			&hash,
			&initialized,
			&clean,
			&rec.StartedAt,
			&finished,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.CommitHash = hash.String
		rec.Initialized = initialized == 1
		rec.Clean = clean == 1
		if finished.Valid {
			rec.FinishedAt = finished.Time
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range results {
		steps, err := s.runSteps(ctx, results[i].ID)
		if err != nil {
			return nil, err
		}
		results[i].Steps = steps
	}

	return results, nil
}

func (s *Store) runSteps(ctx context.Context, runID int64) ([]StepRecord, error) {
	rows, err := s.sql.QueryContext(ctx,
		`SELECT id, run_id, seq, name, command, error, ran_at FROM steps WHERE run_id = ? ORDER BY seq;`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var steps []StepRecord
	for rows.Next() {
		var step StepRecord
		var command, stepErr sql.NullString
		if err := rows.Scan(&step.ID, &step.RunID, &step.Seq, &step.Name, &command, &stepErr, &step.RanAt); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		step.Command = command.String
		step.Error = stepErr.String
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
