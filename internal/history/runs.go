package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wasmkit/capirun/internal/runner"
)

// Run is one recorded harness run.
type Run struct {
	ID         string    `json:"id"`
	Suite      string    `json:"suite"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Executed   int       `json:"executed"`
	Failed     int       `json:"failed"`
}

// NewRunID generates a time-ordered run identifier (UUIDv7), so run IDs
// sort chronologically.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RecordRun persists a completed run and its per-example results in a
// single transaction.
func (s *Store) RecordRun(ctx context.Context, run Run, results []runner.ExampleResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, suite, started_at, finished_at, executed, failed)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Suite,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Executed,
		run.Failed,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	for i, res := range results {
		// A silent child leaves CombinedOutput's buffer nil, which
		// go-sqlite3 would bind as NULL against the NOT NULL column.
		output := res.Output
		if output == nil {
			output = []byte{}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_examples (run_id, seq, name, exe_path, exit_code, output, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			i,
			res.Name,
			res.Path,
			res.ExitCode,
			output,
			res.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("record run example %s: %w", res.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, suite, started_at, finished_at, executed, failed
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			finishedAt string
		)
		if err := rows.Scan(&run.ID, &run.Suite, &startedAt, &finishedAt, &run.Executed, &run.Failed); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("list runs: bad started_at %q: %w", startedAt, err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("list runs: bad finished_at %q: %w", finishedAt, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
