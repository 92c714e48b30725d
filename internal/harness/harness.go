package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/gentest/internal/gen"
	"github.com/roach88/gentest/internal/script"
	"github.com/roach88/gentest/internal/stepassert"
	"github.com/roach88/gentest/internal/steps"
	"github.com/roach88/gentest/internal/store"
)

// Harness runs scenarios and optionally records them.
//
// A Harness is safe for concurrent use when its clock and ID generator
// are; the defaults are.
type Harness struct {
	store  *store.Store
	clock  Clock
	ids    IDGenerator
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithStore records every run in st.
func WithStore(st *store.Store) Option {
	return func(h *Harness) { h.store = st }
}

// WithClock sets the source of run seq numbers.
func WithClock(c Clock) Option {
	return func(h *Harness) { h.clock = c }
}

// WithIDGenerator sets the source of run IDs.
func WithIDGenerator(g IDGenerator) Option {
	return func(h *Harness) { h.ids = g }
}

// WithLogger sets the logger. Drives log per-step records at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// New creates a Harness. Without options it records nothing, numbers runs
// from 1 and uses UUIDv7 run IDs.
func New(opts ...Option) *Harness {
	h := &Harness{
		clock:  NewClockAt(0),
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New().Run(ctx, scenario)
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Compile the program into a computation
// 2. Drive it through the scenario's steps
// 3. Check the drive error against expect_error
// 4. Evaluate actual against expected steps
// 5. Record the run if a store is configured
//
// Step mismatches and drive errors make a failing Result, not an error.
// The returned error reports an invalid program or a store failure.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	fn, err := script.Compile(scenario.Program)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult(scenario.Name)
	result.RunID = h.ids.Generate()
	result.Seq = h.clock.Next()

	logger := h.logger.With("scenario", scenario.Name, "run_id", result.RunID)
	logger.Debug("driving scenario", "steps", len(scenario.Steps))

	res, driveErr := steps.Drive(
		gen.Bind(fn, scenario.Args...),
		Directives(scenario.Steps),
		steps.WithLogger(logger),
	)
	if driveErr != nil {
		result.DriveError = driveErr.Error()
		logger.Debug("drive failed", "error", driveErr)
	}
	if err := assertDriveError(scenario.ExpectError, driveErr); err != nil {
		result.AddError(err.Error())
	}

	var message string
	if res != nil {
		result.Actual = res.Actual
		result.Expected = res.Expected
		ev := stepassert.Evaluate(res)
		if !ev.Pass {
			message = ev.Message
			result.AddError(message)
		}
	}

	if result.Pass {
		logger.Debug("scenario passed")
	} else {
		logger.Debug("scenario failed", "errors", len(result.Errors))
	}

	if h.store != nil {
		if err := h.record(ctx, result, message); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (h *Harness) record(ctx context.Context, result *Result, message string) error {
	actual, err := store.EncodeSteps(result.Actual)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	expected, err := store.EncodeSteps(result.Expected)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	run := store.Run{
		ID:       result.RunID,
		Scenario: result.Scenario,
		Pass:     result.Pass,
		Error:    result.DriveError,
		Message:  message,
		Seq:      result.Seq,
		Actual:   actual,
		Expected: expected,
	}
	if err := h.store.WriteRun(ctx, run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}
