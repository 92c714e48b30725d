package steps

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/gentest/internal/gen"
)

// Result holds the two sequences produced by a drive. Index i of each
// sequence belongs to logical step i; the sequences differ in length when
// the computation and the directives disagree on the number of steps.
type Result struct {
	Actual   []any `json:"actual"`
	Expected []any `json:"expected"`
}

// Option configures a drive.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger receiving per-step debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Drive creates a fresh computation with factory and drives it through
// directives. See DriveHandle.
func Drive(factory gen.Factory, directives []Directive, opts ...Option) (*Result, error) {
	return DriveHandle(factory(), directives, opts...)
}

// DriveHandle advances h once per directive, plus one final probe step that
// observes normal completion, and records what the computation produced
// against what each directive expected.
//
// Mismatches are never errors; they show up as differing Actual/Expected
// entries. DriveHandle fails only with *ConfigurationError or
// *UnhandledComputationError, in which case no result is returned.
//
// If h implements gen.Stopper it is stopped before DriveHandle returns, so
// a computation left suspended by a short directive list is released.
func DriveHandle(h gen.Handle, directives []Directive, opts ...Option) (*Result, error) {
	cfg := &config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(cfg)
	}
	if s, ok := h.(gen.Stopper); ok {
		defer s.Stop()
	}

	res := &Result{Actual: []any{}, Expected: []any{}}

	// pending is the value the next step resumes with. A Throw is injected
	// with Abort; anything else is sent with Advance.
	var pending any
	done := false

	last := len(directives)
	for i := 0; i <= last; i++ {
		// The probe step past the end has no directive.
		var d Directive
		if i < last {
			d = directives[i]
			if d == nil {
				d = Plain{}
			}
		}
		onLast := i == last

		out, err := resume(h, pending)
		pending = nil
		if err != nil {
			res.Expected = append(res.Expected, true)
			t, ok := d.(Throw)
			if !ok {
				return nil, &UnhandledComputationError{Step: i, Err: err}
			}
			v, ok := t.handle(err)
			if !ok {
				return nil, &ConfigurationError{
					Step:    i,
					Message: fmt.Sprintf("throws handler must be func(error) bool or func(error) any, got %T", t.Handler),
				}
			}
			res.Actual = append(res.Actual, v)
			cfg.logger.Debug("step raised", "step", i, "directive", kindOf(d), "error", err)
			continue
		}

		cfg.logger.Debug("step", "step", i, "directive", kindOf(d), "done", out.Done)

		// Directives past completion only grow Expected. A nil value
		// carries no expectation and adds nothing.
		if done && d != nil && !isNilPlain(d) {
			res.Expected = append(res.Expected, afterCompletion(d))
			continue
		}

		if out.Done {
			done = true
		}

		// More suspensions than directives is not an error here.
		if !out.Done && onLast {
			break
		}

		if out.Done && !onLast {
			if y, ok := d.(Yield); ok && !y.Unchecked {
				res.Expected = append(res.Expected, y.Expected)
				continue
			}
		}

		if out.Done && out.Value == nil {
			if exp, ok := expectation(d); ok {
				res.Expected = append(res.Expected, exp)
			}
			continue
		}

		switch d := d.(type) {
		case Finish:
			if !out.Done {
				res.Actual = append(res.Actual, gen.Outcome{Value: out.Value})
				res.Expected = append(res.Expected, gen.Outcome{Done: true})
				pending = d
				continue
			}
			res.Expected = append(res.Expected, d.Expected)
			res.Actual = append(res.Actual, out.Value)
			pending = d.Response
		case Yield:
			if d.Unchecked {
				res.Expected = append(res.Expected, nil)
				res.Actual = append(res.Actual, nil)
			} else {
				res.Expected = append(res.Expected, d.Expected)
				res.Actual = append(res.Actual, out.Value)
			}
			pending = d.Response
		case Throw:
			// The computation did not raise here, so the step trivially
			// matches and the handler value becomes the next response.
			res.Expected = append(res.Expected, out.Value)
			res.Actual = append(res.Actual, out.Value)
			pending = d.Handler
		case Plain:
			res.Actual = append(res.Actual, out.Value)
			res.Expected = append(res.Expected, d.Value)
			pending = d.Value
		case nil:
			res.Actual = append(res.Actual, out.Value)
			res.Expected = append(res.Expected, nil)
		default:
			return nil, &ConfigurationError{Step: i, Message: fmt.Sprintf("unsupported directive %T", d)}
		}
	}

	return res, nil
}

func resume(h gen.Handle, pending any) (gen.Outcome, error) {
	if t, ok := pending.(Throw); ok {
		return h.Abort(t.payload())
	}
	return h.Advance(pending)
}

// expectation returns the value a directive expects, if it carries one.
func expectation(d Directive) (any, bool) {
	switch d := d.(type) {
	case Yield:
		if d.Unchecked {
			return nil, true
		}
		return d.Expected, true
	case Finish:
		return d.Expected, d.HasExpected
	default:
		return nil, false
	}
}

// afterCompletion is what a directive contributes to Expected once the
// computation has already finished.
func afterCompletion(d Directive) any {
	switch d := d.(type) {
	case Plain:
		return d.Value
	case Yield:
		if !d.Unchecked {
			return d.Expected
		}
	case Finish:
		if d.HasExpected {
			return d.Expected
		}
	}
	return d
}

func isNilPlain(d Directive) bool {
	p, ok := d.(Plain)
	return ok && p.Value == nil
}

func kindOf(d Directive) string {
	if d == nil {
		return "probe"
	}
	return d.kind()
}
