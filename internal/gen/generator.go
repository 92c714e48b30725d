package gen

import (
	"runtime"
	"runtime/debug"
)

// Generator runs a Func as a coroutine.
//
// The body runs on its own goroutine, but control is handed over through an
// unbuffered channel: the caller blocks inside Advance/Abort until the body
// yields or returns, and the body blocks inside Yield until the next resume.
// Fields shared by both sides are only touched by whichever side currently
// holds control.
//
// A Generator must not be used from multiple goroutines at once.
type Generator struct {
	fn   Func
	args []any
	next chan struct{}

	send   any
	inject error
	recv   any
	result any
	err    error

	started bool
	stop    bool
	done    bool
}

// New creates a generator that will run fn with args on the first resume.
func New(fn Func, args ...any) *Generator {
	return &Generator{
		fn:   fn,
		args: args,
		next: make(chan struct{}),
	}
}

// Advance resumes the generator with response. The response given to the
// first call is discarded, since no suspension is pending yet.
//
// Once the generator has finished, Advance keeps returning {Done: true}
// with no value.
func (g *Generator) Advance(response any) (Outcome, error) {
	if g.done {
		return Outcome{Done: true}, nil
	}
	g.send, g.inject = response, nil
	return g.resume()
}

// Abort raises err at the pending suspension. If the generator has not
// started yet or has already finished, it is marked done and err is returned
// unchanged without running the body.
func (g *Generator) Abort(err error) (Outcome, error) {
	if g.done || !g.started {
		g.done = true
		return Outcome{Done: true}, err
	}
	g.send, g.inject = nil, err
	return g.resume()
}

// Stop unwinds a suspended generator, running the body's deferred calls.
// Stop is idempotent and a no-op after completion.
func (g *Generator) Stop() {
	if g.done {
		return
	}
	g.done = true
	if !g.started {
		return
	}
	g.stop = true
	g.next <- struct{}{}
	<-g.next
}

// Done reports whether the generator has finished or was stopped.
func (g *Generator) Done() bool { return g.done }

func (g *Generator) resume() (Outcome, error) {
	if !g.started {
		g.started = true
		go g.run()
	}
	g.next <- struct{}{}
	if _, ok := <-g.next; ok {
		return Outcome{Value: g.recv}, nil
	}
	g.done = true
	return Outcome{Done: true, Value: g.result}, g.err
}

func (g *Generator) run() {
	defer close(g.next)
	defer func() {
		if p := recover(); p != nil {
			g.result, g.err = nil, &PanicError{Value: p, Stack: debug.Stack()}
		}
	}()

	<-g.next
	if g.stop {
		return
	}
	g.result, g.err = g.fn(&Yielder{g: g}, g.args...)
}

// Yielder is handed to a generator body to suspend it.
type Yielder struct {
	g *Generator
}

// Yield suspends the body with v and returns the value passed to the next
// Advance, or the error passed to the next Abort.
//
// When the generator is stopped while suspended, Yield does not return; the
// body's goroutine unwinds instead.
func (y *Yielder) Yield(v any) (any, error) {
	g := y.g
	if g.stop {
		panic("gen: yield from a stopped generator")
	}
	g.recv = v
	g.next <- struct{}{}
	<-g.next
	if g.stop {
		runtime.Goexit()
	}
	return g.send, g.inject
}
