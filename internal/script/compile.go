package script

import (
	"fmt"

	"github.com/roach88/gentest/internal/gen"
)

// CompileError reports a malformed program.
type CompileError struct {
	Path    string // e.g. "program[2].catch[0]"
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// RaisedError is the error a throw op raises.
type RaisedError struct {
	Value any
}

func (e *RaisedError) Error() string {
	return fmt.Sprint(e.Value)
}

// Compile checks ops and returns a generator body running them.
func Compile(ops []Op) (gen.Func, error) {
	if err := check(ops, "program", false); err != nil {
		return nil, err
	}

	return func(y *gen.Yielder, args ...any) (any, error) {
		m := &machine{y: y, args: args}
		ret, _, err := m.exec(ops)
		return ret, err
	}, nil
}

func check(ops []Op, path string, inCatch bool) error {
	for i, op := range ops {
		p := fmt.Sprintf("%s[%d]", path, i)
		switch op.Kind {
		case OpYield, OpThrow, OpReturn:
			if err := checkExpr(op.Value, p, inCatch); err != nil {
				return err
			}
		case OpTry:
			if len(op.Catch) == 0 {
				return &CompileError{Path: p, Message: "try requires a catch block"}
			}
			if err := check(op.Body, p+".try", inCatch); err != nil {
				return err
			}
			if err := check(op.Catch, p+".catch", true); err != nil {
				return err
			}
		default:
			return &CompileError{Path: p, Message: fmt.Sprintf("unknown op %q", op.Kind)}
		}
	}
	return nil
}

func checkExpr(e Expr, path string, inCatch bool) error {
	switch e.Ref {
	case "":
		if e.Add != nil || e.Suffix != "" {
			return &CompileError{Path: path, Message: "add and suffix require a ref"}
		}
	case RefReceived, RefArg:
	case RefError:
		if !inCatch {
			return &CompileError{Path: path, Message: "ref error is only valid inside catch"}
		}
	default:
		return &CompileError{Path: path, Message: fmt.Sprintf("unknown ref %q", e.Ref)}
	}
	if e.Add != nil && e.Suffix != "" {
		return &CompileError{Path: path, Message: "add and suffix are exclusive"}
	}
	if e.Index < 0 {
		return &CompileError{Path: path, Message: "index must be non-negative"}
	}
	return nil
}

// machine executes a program for one generator run.
type machine struct {
	y        *gen.Yielder
	args     []any
	received any
	caught   error
}

// exec runs ops. returned reports whether a return op ended the block.
func (m *machine) exec(ops []Op) (ret any, returned bool, err error) {
	for _, op := range ops {
		switch op.Kind {
		case OpYield:
			v, err := m.eval(op.Value)
			if err != nil {
				return nil, false, err
			}
			r, err := m.y.Yield(v)
			if err != nil {
				return nil, false, err
			}
			m.received = r
		case OpThrow:
			v, err := m.eval(op.Value)
			if err != nil {
				return nil, false, err
			}
			return nil, false, &RaisedError{Value: v}
		case OpReturn:
			v, err := m.eval(op.Value)
			if err != nil {
				return nil, false, err
			}
			return v, true, nil
		case OpTry:
			ret, returned, err := m.exec(op.Body)
			if err == nil {
				if returned {
					return ret, true, nil
				}
				continue
			}
			outer := m.caught
			m.caught = err
			ret, returned, err = m.exec(op.Catch)
			m.caught = outer
			if err != nil || returned {
				return ret, returned, err
			}
		}
	}
	return nil, false, nil
}

func (m *machine) eval(e Expr) (any, error) {
	var base any
	switch e.Ref {
	case "":
		return e.Literal, nil
	case RefReceived:
		base = m.received
	case RefError:
		base = m.caught.Error()
	case RefArg:
		if e.Index >= len(m.args) {
			return nil, fmt.Errorf("arg %d out of range (%d args)", e.Index, len(m.args))
		}
		base = m.args[e.Index]
	}

	switch {
	case e.Add != nil:
		return add(base, *e.Add)
	case e.Suffix != "":
		return fmt.Sprint(base) + e.Suffix, nil
	default:
		return base, nil
	}
}

func add(v any, n int) (any, error) {
	switch v := v.(type) {
	case int:
		return v + n, nil
	case int64:
		return v + int64(n), nil
	case float64:
		return v + float64(n), nil
	default:
		return nil, fmt.Errorf("cannot add %d to %T", n, v)
	}
}
