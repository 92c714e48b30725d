package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/gentest/internal/snapshot"
)

// Snapshot serialises the deterministic part of a result as canonical
// JSON. Run IDs and seq numbers are left out.
func Snapshot(result *Result) ([]byte, error) {
	m := map[string]any{
		"scenario": result.Scenario,
		"pass":     result.Pass,
		"actual":   result.Actual,
		"expected": result.Expected,
	}
	if result.DriveError != "" {
		m["drive_error"] = result.DriveError
	}
	return snapshot.Marshal(m)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can assert on it as well. Test failure
// (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's snapshot against a golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
