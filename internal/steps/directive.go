package steps

import "fmt"

// Directive tells the driver what to expect at one step and what to resume
// the computation with afterwards.
//
// The set of directives is closed: Plain, Yield, Throw and Finish.
type Directive interface {
	// kind names the directive in logs and error messages.
	kind() string
}

// Plain expects the next suspended value to equal Value. Value is also sent
// back to the computation as the next response.
type Plain struct {
	Value any
}

// Yield expects the next suspended value to equal Expected, then resumes the
// computation with Response. When Unchecked is set the suspended value is
// not compared.
//
// Response may be a Throw, in which case the computation is resumed by
// raising the Throw's payload instead.
type Yield struct {
	Expected  any
	Response  any
	Unchecked bool
}

// Throw is either an error to inject (when used as a Yield/Finish response)
// or, when used as a directive, a handler receiving the error the
// computation raised at that step. Handlers must be func(error) bool or
// func(error) any.
type Throw struct {
	Handler any
}

// Finish asserts that the computation has completed by this step. Once
// done, a non-nil result is compared with Expected like a Yield. HasExpected
// marks an explicit expectation for steps that see no result.
type Finish struct {
	Expected    any
	HasExpected bool
	Response    any
}

func (Plain) kind() string  { return "plain" }
func (Yield) kind() string  { return "yield" }
func (Throw) kind() string  { return "throw" }
func (Finish) kind() string { return "finish" }

// Value returns a Plain directive.
func Value(v any) Plain {
	return Plain{Value: v}
}

// Yields expects the suspended value to equal expected and resumes with
// response.
func Yields(expected, response any) Yield {
	return Yield{Expected: expected, Response: response}
}

// Skip resumes with response without checking the suspended value.
func Skip(response any) Yield {
	return Yield{Response: response, Unchecked: true}
}

// Throws builds a Throw directive. See Throw for the two roles it plays.
func Throws(handlerOrValue any) Throw {
	return Throw{Handler: handlerOrValue}
}

// Finishes asserts completion. A computation that finishes with a value
// fails the step, since the expected result is nil; use FinishesWith to
// check the value.
func Finishes() Finish {
	return Finish{}
}

// FinishesWith asserts completion with the given result.
func FinishesWith(expected, response any) Finish {
	return Finish{Expected: expected, HasExpected: true, Response: response}
}

// List turns a mix of directives and bare values into directives. Values
// that are not already a Directive become Plain.
func List(vs ...any) []Directive {
	out := make([]Directive, len(vs))
	for i, v := range vs {
		if d, ok := v.(Directive); ok {
			out[i] = d
			continue
		}
		out[i] = Plain{Value: v}
	}
	return out
}

// Thrown wraps a non-error payload injected with Throws.
type Thrown struct {
	Value any
}

func (t *Thrown) Error() string {
	return fmt.Sprint(t.Value)
}

// payload returns the error a Throw injects into the computation.
func (t Throw) payload() error {
	if err, ok := t.Handler.(error); ok {
		return err
	}
	return &Thrown{Value: t.Handler}
}

// handle applies the Throw's handler to an error raised by the computation.
func (t Throw) handle(err error) (any, bool) {
	switch h := t.Handler.(type) {
	case func(error) bool:
		return h(err), true
	case func(error) any:
		return h(err), true
	default:
		return nil, false
	}
}
