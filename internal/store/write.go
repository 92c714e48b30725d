package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const (
	sideActual   = "actual"
	sideExpected = "expected"
)

// Run is one recorded drive of a scenario.
type Run struct {
	ID       string
	Scenario string
	Pass     bool
	Error    string // drive error, empty when the drive completed
	Message  string // mismatch message, empty on pass
	Seq      int64
	Actual   []json.RawMessage
	Expected []json.RawMessage
}

// WriteRun inserts a run and its steps in one transaction.
// Uses ON CONFLICT DO NOTHING for idempotency - writing the same run ID
// twice leaves the first record untouched.
func (s *Store) WriteRun(ctx context.Context, run Run) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, pass, error, message, seq)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Scenario,
		run.Pass,
		run.Error,
		run.Message,
		run.Seq,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if inserted > 0 {
		if err = writeSteps(ctx, tx, run.ID, sideActual, run.Actual); err != nil {
			return err
		}
		if err = writeSteps(ctx, tx, run.ID, sideExpected, run.Expected); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

func writeSteps(ctx context.Context, tx *sql.Tx, runID, side string, values []json.RawMessage) error {
	for i, v := range values {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO steps (run_id, side, idx, value)
			VALUES (?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, runID, side, i, string(v))
		if err != nil {
			return fmt.Errorf("write %s step %d: %w", side, i, err)
		}
	}
	return nil
}
