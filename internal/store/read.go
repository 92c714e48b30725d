package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ReadRun returns a run and its steps. Returns ErrNotFound if no run has
// the given ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, pass, error, message, seq
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	if err := s.readSteps(ctx, &run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns runs without their steps, ordered by seq.
// An empty scenario lists every run.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, scenario string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario, pass, error, message, seq
		FROM runs
		WHERE ? = '' OR scenario = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, scenario, scenario)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// LastSeq returns the highest recorded seq, or 0 for an empty store.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

func (s *Store) readSteps(ctx context.Context, run *Run) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT side, value
		FROM steps
		WHERE run_id = ?
		ORDER BY side, idx ASC
	`, run.ID)
	if err != nil {
		return fmt.Errorf("read steps %s: %w", run.ID, err)
	}
	defer rows.Close()

	run.Actual = []json.RawMessage{}
	run.Expected = []json.RawMessage{}
	for rows.Next() {
		var side, value string
		if err := rows.Scan(&side, &value); err != nil {
			return fmt.Errorf("read steps %s: %w", run.ID, err)
		}
		switch side {
		case sideActual:
			run.Actual = append(run.Actual, json.RawMessage(value))
		case sideExpected:
			run.Expected = append(run.Expected, json.RawMessage(value))
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Scenario, &run.Pass, &run.Error, &run.Message, &run.Seq)
	return run, err
}

func decodeNumber(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
