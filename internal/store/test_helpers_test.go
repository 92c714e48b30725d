package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a passing run with the given steps on both sides.
func createTestRun(id, scenario string, seq int64, values ...string) Run {
	raw := make([]json.RawMessage, 0, len(values))
	for _, v := range values {
		raw = append(raw, json.RawMessage(v))
	}
	return Run{
		ID:       id,
		Scenario: scenario,
		Pass:     true,
		Seq:      seq,
		Actual:   raw,
		Expected: raw,
	}
}
