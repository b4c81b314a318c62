package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/contail/strands-agents-starter/executor"
	"github.com/contail/strands-agents-starter/task"
)

//go:embed db/migrations/*.sql
var migrationsFS embed.FS

// ErrRunNotFound is returned when the requested run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// TaskRecord is one persisted per-task row.
type TaskRecord struct {
	ID           string
	Status       task.Status
	Dependencies []string
	Duration     time.Duration
	Error        string
}

// Run is one persisted workflow run.
type Run struct {
	ID         string
	Total      int
	Completed  int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
	Tasks      []TaskRecord
}

// Store records finished runs in a sqlite database so the CLI can show past
// executions. It is append-only; rows are never updated.
type Store struct {
	db *sql.DB
}

// NewSqliteStore opens (and migrates) the store at the given file path.
func NewSqliteStore(path string) (*Store, error) {
	return newStore(fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path))
}

// NewInMemoryStore creates a throwaway store, used by tests.
func NewInMemoryStore() (*Store, error) {
	return newStore("file::memory:?_pragma=foreign_keys(1)")
}

func newStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	// An in-memory database exists per connection; cap the pool before
	// migrations so every statement sees the same database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate() error {
	dbi, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migration instance: %w", err)
	}

	migrations, err := iofs.New(migrationsFS, "db/migrations")
	if err != nil {
		return fmt.Errorf("creating migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", migrations, "sqlite", dbi)
	if err != nil {
		return fmt.Errorf("creating migration: %w", err)
	}

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	return nil
}

// RecordRun persists a finished run. runErr is the error Run returned, nil
// for a fully completed run.
func (s *Store) RecordRun(ctx context.Context, status *executor.RunStatus, runErr error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	runErrText := ""
	if runErr != nil {
		runErrText = runErr.Error()
	}

	if _, err := tx.ExecContext(
		ctx,
		"INSERT INTO runs (id, total, completed, failed, started_at, finished_at, error) VALUES (?, ?, ?, ?, ?, ?, ?)",
		status.RunID,
		status.Total,
		status.Completed,
		status.Failed,
		status.StartedAt.UnixMilli(),
		status.FinishedAt.UnixMilli(),
		runErrText,
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, t := range status.Tasks {
		if _, err := tx.ExecContext(
			ctx,
			"INSERT INTO run_tasks (run_id, task_id, status, dependencies, duration_ms, error) VALUES (?, ?, ?, ?, ?, ?)",
			status.RunID,
			t.ID,
			string(t.Status),
			strings.Join(t.Dependencies, ","),
			t.Duration.Milliseconds(),
			t.Error,
		); err != nil {
			return fmt.Errorf("inserting task %q: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	return nil
}

// GetRun returns one run with its task rows.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		"SELECT id, total, completed, failed, started_at, finished_at, error FROM runs WHERE id = ?",
		id,
	)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("querying run: %w", err)
	}

	rows, err := s.db.QueryContext(
		ctx,
		"SELECT task_id, status, dependencies, duration_ms, error FROM run_tasks WHERE run_id = ? ORDER BY task_id",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying run tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tr TaskRecord
		var status, deps string
		var durationMS int64

		if err := rows.Scan(&tr.ID, &status, &deps, &durationMS, &tr.Error); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}

		tr.Status = task.Status(status)
		if deps != "" {
			tr.Dependencies = strings.Split(deps, ",")
		}
		tr.Duration = time.Duration(durationMS) * time.Millisecond

		run.Tasks = append(run.Tasks, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs, newest first, without task rows.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT id, total, completed, failed, started_at, finished_at, error FROM runs ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run rows: %w", err)
	}

	return runs, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var startedAt, finishedAt int64

	if err := row.Scan(&run.ID, &run.Total, &run.Completed, &run.Failed, &startedAt, &finishedAt, &run.Error); err != nil {
		return nil, err
	}

	run.StartedAt = time.UnixMilli(startedAt)
	run.FinishedAt = time.UnixMilli(finishedAt)

	return &run, nil
}
