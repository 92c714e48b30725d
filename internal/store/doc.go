// Package store provides SQLite-backed history of scenario runs.
//
// Each run records the scenario name, the verdict and the two step
// sequences produced by the driver:
//   - runs: one row per drive (id, scenario, pass, error, message, seq)
//   - steps: one row per recorded value (run_id, side, idx, value)
//
// Step values are stored as canonical JSON (see internal/snapshot) so that
// identical drives produce identical rows.
//
// # Ordering
//
// Runs are ordered by the logical seq column, never by wall time:
// ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Steps are deleted with their run
package store
