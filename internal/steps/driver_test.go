package steps

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gentest/internal/gen"
	"github.com/roach88/gentest/internal/testutil"
)

// plusTwo yields 1, then yields the response plus two.
func plusTwo(y *gen.Yielder, _ ...any) (any, error) {
	v, err := y.Yield(1)
	if err != nil {
		return nil, err
	}
	_, err = y.Yield(v.(int) + 2)
	return nil, err
}

func drive(t *testing.T, f gen.Factory, vs ...any) *Result {
	t.Helper()
	res, err := Drive(f, List(vs...))
	require.NoError(t, err)
	return res
}

func TestDrive_ReturnValue(t *testing.T) {
	res := drive(t, testutil.YieldAll(3, 1, 2), 1, 2, 3)

	assert.Equal(t, []any{1, 2, 3}, res.Actual)
	assert.Equal(t, []any{1, 2, 3}, res.Expected)
}

func TestDrive_CheckFirstYieldsOnly(t *testing.T) {
	res := drive(t, testutil.YieldAll(nil, 1, 2, 3), 1, 2)

	assert.Equal(t, []any{1, 2}, res.Actual)
	assert.Equal(t, []any{1, 2}, res.Expected)
}

func TestDrive_InitArgs(t *testing.T) {
	f := gen.Bind(func(y *gen.Yielder, args ...any) (any, error) {
		for _, v := range []any{args[0], 2, 1} {
			if _, err := y.Yield(v); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}, 3)

	res := drive(t, f, 3, 2, 1)
	assert.Equal(t, res.Expected, res.Actual)
}

func TestDrive_YieldResponse(t *testing.T) {
	res := drive(t, gen.Bind(plusTwo), Yields(1, 3), 5)

	assert.Equal(t, []any{1, 5}, res.Actual)
	assert.Equal(t, []any{1, 5}, res.Expected)
}

func TestDrive_Skip(t *testing.T) {
	res := drive(t, testutil.YieldAll(3, 1, 2), Skip(nil), 2, 3)

	assert.Equal(t, []any{nil, 2, 3}, res.Actual)
	assert.Equal(t, []any{nil, 2, 3}, res.Expected)
}

func TestDrive_SkipWithResponse(t *testing.T) {
	res := drive(t, gen.Bind(plusTwo), Skip(3), 5)

	assert.Equal(t, []any{nil, 5}, res.Actual)
	assert.Equal(t, res.Expected, res.Actual)
}

func TestDrive_YieldsNilIsChecked(t *testing.T) {
	res := drive(t, testutil.YieldAll(nil, 1), Yields(nil, nil))

	assert.Equal(t, []any{1}, res.Actual)
	assert.Equal(t, []any{nil}, res.Expected)
}

func TestDrive_Mismatch(t *testing.T) {
	res := drive(t, testutil.YieldAll(3, 1, 2), Skip(nil), 4, 3)

	assert.Equal(t, []any{nil, 2, 3}, res.Actual)
	assert.Equal(t, []any{nil, 4, 3}, res.Expected)
}

func TestDrive_UnderRunStopsComputation(t *testing.T) {
	advanced := 0
	f := gen.Bind(func(y *gen.Yielder, _ ...any) (any, error) {
		for i := 1; ; i++ {
			advanced = i
			if _, err := y.Yield(i); err != nil {
				return nil, err
			}
		}
	})

	res := drive(t, f, 1)

	assert.Equal(t, []any{1}, res.Actual)
	assert.Equal(t, []any{1}, res.Expected)
	// One directive plus the probe step.
	assert.Equal(t, 2, advanced)
}

func TestDrive_FinishesWhileSuspended(t *testing.T) {
	res := drive(t, testutil.YieldAll(3, 1, 2), FinishesWith(1, nil))

	assert.Equal(t, []any{gen.Outcome{Done: false, Value: 1}}, res.Actual)
	assert.Equal(t, []any{gen.Outcome{Done: true}}, res.Expected)
}

func TestDrive_Finishes(t *testing.T) {
	res := drive(t, testutil.YieldAll(3, 1, 2), 1, 2, FinishesWith(3, nil))
	assert.Equal(t, []any{1, 2, 3}, res.Actual)
	assert.Equal(t, []any{1, 2, 3}, res.Expected)
}

func TestDrive_FinishesWrongValue(t *testing.T) {
	res := drive(t, testutil.YieldAll(3, 1, 2), 1, 2, FinishesWith(4, nil))

	assert.Equal(t, []any{1, 2, 3}, res.Actual)
	assert.Equal(t, []any{1, 2, 4}, res.Expected)
}

func TestDrive_ExpectationsAfterFinish(t *testing.T) {
	res := drive(t, testutil.YieldAll(3, 1, 2), 1, 2, FinishesWith(3, nil), 4)

	assert.Equal(t, []any{1, 2, 3}, res.Actual)
	assert.Equal(t, []any{1, 2, 3, 4}, res.Expected)
}

func TestDrive_FinishesWithoutReturnValue(t *testing.T) {
	res := drive(t, testutil.YieldAll(nil, 1, 2), 1, 2, Finishes())

	assert.Equal(t, []any{1, 2}, res.Actual)
	assert.Equal(t, res.Expected, res.Actual)
}

func TestDrive_FinishesComparesNilResult(t *testing.T) {
	res := drive(t, testutil.YieldAll(3, 1, 2), 1, 2, Finishes())

	assert.Equal(t, []any{1, 2, 3}, res.Actual)
	assert.Equal(t, []any{1, 2, nil}, res.Expected)
	assert.False(t, res.Evaluate(assert.ObjectsAreEqual, nil).Pass)
}

func TestDrive_NilStepAfterCompletion(t *testing.T) {
	tests := []struct {
		name       string
		directives []Directive
	}{
		{"list nil", List(1, Finishes(), nil)},
		{"plain nil", []Directive{Value(1), Finishes(), Value(nil)}},
		{"nil directive", []Directive{Value(1), Finishes(), nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Drive(testutil.YieldAll(nil, 1), tt.directives)
			require.NoError(t, err)

			assert.Equal(t, []any{1}, res.Actual)
			assert.Equal(t, []any{1}, res.Expected)
			assert.True(t, res.Evaluate(assert.ObjectsAreEqual, nil).Pass)
		})
	}
}

func TestDrive_PlainValueAfterCompletion(t *testing.T) {
	res := drive(t, testutil.YieldAll(nil, 1), 1, Finishes(), 0)

	assert.Equal(t, []any{1}, res.Actual)
	assert.Equal(t, []any{1, 0}, res.Expected)
}

func TestDrive_ResponsesFeedBack(t *testing.T) {
	res := drive(t, testutil.Echo(1, 2, 2), Yields(1, 10), Yields(12, 20), Yields(22, 7), 7)

	assert.Equal(t, []any{1, 12, 22, 7}, res.Actual)
	assert.Equal(t, res.Expected, res.Actual)
}

func TestDrive_TooManySteps(t *testing.T) {
	res := drive(t, testutil.YieldAll(nil, 1), Yields(1, nil), Yields(2, nil), Yields(3, nil))

	assert.Equal(t, []any{1}, res.Actual)
	assert.Equal(t, []any{1, 2, 3}, res.Expected)
}

func TestDrive_EarlyReturnWithExpectation(t *testing.T) {
	res := drive(t, testutil.YieldAll(nil), FinishesWith("123", nil))

	assert.Empty(t, res.Actual)
	assert.Equal(t, []any{"123"}, res.Expected)
}

func TestDrive_AfterCompletionPushesDirective(t *testing.T) {
	skip := Skip("x")
	res := drive(t, testutil.YieldAll(nil), 0, skip)

	// The skip has no expectation of its own, so the directive itself
	// lands in Expected.
	assert.Empty(t, res.Actual)
	assert.Equal(t, []any{skip}, res.Expected)
}

func TestDrive_InjectedErrorHandled(t *testing.T) {
	f := gen.Bind(func(y *gen.Yielder, _ ...any) (any, error) {
		value := 1
		if _, err := y.Yield(1); err != nil {
			value = 2
			if _, err := y.Yield(err.Error() + " handled"); err != nil {
				return nil, err
			}
		}
		return value, nil
	})

	res := drive(t, f,
		Yields(1, Throws("ERROR")),
		Yields("ERROR handled", nil),
		2,
	)

	assert.Equal(t, []any{1, "ERROR handled", 2}, res.Actual)
	assert.Equal(t, res.Expected, res.Actual)
}

func TestDrive_InjectedErrorValue(t *testing.T) {
	sentinel := errors.New("sentinel")
	var got error
	f := gen.Bind(func(y *gen.Yielder, _ ...any) (any, error) {
		_, got = y.Yield(1)
		return nil, nil
	})

	drive(t, f, Yields(1, Throws(sentinel)))
	assert.Same(t, sentinel, got)
}

func TestDrive_ComputationThrowsMatched(t *testing.T) {
	f := gen.Bind(func(y *gen.Yielder, _ ...any) (any, error) {
		if _, err := y.Yield(1); err != nil {
			return nil, errors.New("Sup")
		}
		return 1, nil
	})

	res := drive(t, f,
		Yields(1, Throws("ERROR")),
		Throws(func(err error) bool { return err.Error() == "Sup" }),
	)

	assert.Equal(t, []any{1, true}, res.Actual)
	assert.Equal(t, []any{1, true}, res.Expected)
}

func TestDrive_ThrowHandlerMapper(t *testing.T) {
	f := gen.Bind(func(y *gen.Yielder, _ ...any) (any, error) {
		return nil, errors.New("bad")
	})

	res := drive(t, f, Throws(func(err error) any { return err.Error() }))

	assert.Equal(t, []any{"bad"}, res.Actual)
	assert.Equal(t, []any{true}, res.Expected)
}

func TestDrive_ThrowHandlerNotCallable(t *testing.T) {
	f := gen.Bind(func(y *gen.Yielder, _ ...any) (any, error) {
		return nil, errors.New("bad")
	})

	res, err := Drive(f, List(Throws("not a function")))
	assert.Nil(t, res)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 0, cfgErr.Step)
	assert.Contains(t, cfgErr.Error(), "string")
}

func TestDrive_ThrowWithoutError(t *testing.T) {
	res := drive(t, gen.Bind(plusTwo), Throws(10), 12)

	// The throw step compares the suspended value with itself and sends the
	// payload as a plain response.
	assert.Equal(t, []any{1, 12}, res.Actual)
	assert.Equal(t, []any{1, 12}, res.Expected)
}

func TestDrive_UnhandledComputationError(t *testing.T) {
	boom := errors.New("error")
	f := gen.Bind(func(y *gen.Yielder, _ ...any) (any, error) {
		if _, err := y.Yield(1); err != nil {
			return nil, err
		}
		return nil, boom
	})

	res, err := Drive(f, List(Yields(1, nil)))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, boom)

	var unhandled *UnhandledComputationError
	require.ErrorAs(t, err, &unhandled)
	assert.Equal(t, 1, unhandled.Step)
}

func TestDrive_PanicIsUnhandled(t *testing.T) {
	f := gen.Bind(func(y *gen.Yielder, _ ...any) (any, error) {
		panic("kaboom")
	})

	_, err := Drive(f, List(1))

	var pe *gen.PanicError
	require.ErrorAs(t, err, &pe)
}

func TestDrive_PlainCarriesItselfForward(t *testing.T) {
	var responses []any
	f := gen.Bind(func(y *gen.Yielder, _ ...any) (any, error) {
		for _, v := range []any{"a", "b"} {
			r, err := y.Yield(v)
			if err != nil {
				return nil, err
			}
			responses = append(responses, r)
		}
		return nil, nil
	})

	drive(t, f, "a", "b")
	assert.Equal(t, []any{"a", "b"}, responses)
}

func TestDrive_UnsupportedDirective(t *testing.T) {
	_, err := Drive(testutil.YieldAll(nil, 1), []Directive{&Plain{Value: 1}})

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestDrive_SeqHandle(t *testing.T) {
	seq := func(yield func(any) bool) {
		for _, v := range []any{"x", "y"} {
			if !yield(v) {
				return
			}
		}
	}

	res, err := Drive(gen.SeqFactory(seq), List("x", "y", Finishes()))
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y"}, res.Actual)
	assert.Equal(t, res.Expected, res.Actual)
}

// Matching directives over a computation that suspends exactly len(D)
// times always produce equal sequences.
func TestDrive_MatchingDirectivesProperty(t *testing.T) {
	for n := 0; n < 6; n++ {
		vs := make([]any, n)
		for i := range vs {
			vs[i] = i * 10
		}
		res := drive(t, testutil.YieldAll(nil, vs...), vs...)
		assert.Len(t, res.Actual, n)
		assert.Equal(t, res.Expected, res.Actual)
		assert.True(t, res.Evaluate(assert.ObjectsAreEqual, nil).Pass)
	}
}
