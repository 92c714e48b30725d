// Package gen provides the suspend/resume computations that the step driver
// advances.
//
// A computation is any value implementing Handle. The package ships two
// implementations:
//
//   - Generator runs a Func on its own goroutine and hands control back and
//     forth over an unbuffered channel, so only one side runs at a time.
//   - SeqHandle adapts a range-over-func iterator (iter.Seq) via iter.Pull.
//
// Example:
//
//	g := gen.New(func(y *gen.Yielder, args ...any) (any, error) {
//	    v, err := y.Yield(1)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return v.(int) + 2, nil
//	})
//	out, _ := g.Advance(nil) // {Done: false, Value: 1}
//	out, _ = g.Advance(3)    // {Done: true, Value: 5}
package gen

import "fmt"

// Outcome is the result of resuming a computation once.
//
// Done=false means the computation suspended and Value is the value it
// yielded. Done=true means it finished; Value is its result, or nil when it
// returned no value.
type Outcome struct {
	Done  bool `json:"done"`
	Value any  `json:"value,omitempty"`
}

// Handle is a single-owner, forward-only computation.
//
// Advance resumes the computation so that its pending suspension returns
// response. Abort resumes it by raising err at the pending suspension.
// A non-nil error from either method means the computation's own body
// failed at this step.
type Handle interface {
	Advance(response any) (Outcome, error)
	Abort(err error) (Outcome, error)
}

// Stopper is implemented by handles that hold resources while suspended.
// Stop must be idempotent.
type Stopper interface {
	Stop()
}

// Factory creates a fresh computation for one drive.
type Factory func() Handle

// Func is the body of a Generator. It receives the init args the generator
// was created with and suspends by calling y.Yield.
type Func func(y *Yielder, args ...any) (any, error)

// Bind returns a Factory that starts a new Generator running fn with args.
func Bind(fn Func, args ...any) Factory {
	return func() Handle {
		return New(fn, args...)
	}
}

// PanicError is returned when a generator body panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("gen: computation panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
