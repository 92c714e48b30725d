package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTwo(y *Yielder, _ ...any) (any, error) {
	v, err := y.Yield(1)
	if err != nil {
		return nil, err
	}
	return v.(int) + 2, nil
}

func TestGenerator_AdvanceSendsResponse(t *testing.T) {
	g := New(addTwo)

	out, err := g.Advance("ignored")
	require.NoError(t, err)
	assert.Equal(t, Outcome{Value: 1}, out)

	out, err = g.Advance(3)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Done: true, Value: 5}, out)
	assert.True(t, g.Done())
}

func TestGenerator_AdvanceAfterCompletion(t *testing.T) {
	g := New(func(y *Yielder, _ ...any) (any, error) {
		return 3, nil
	})

	out, err := g.Advance(nil)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Done: true, Value: 3}, out)

	// Subsequent resumes report completion without a value.
	out, err = g.Advance(nil)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Done: true}, out)
}

func TestGenerator_Args(t *testing.T) {
	g := Bind(func(y *Yielder, args ...any) (any, error) {
		_, err := y.Yield(args[0])
		return nil, err
	}, "first")()

	out, err := g.Advance(nil)
	require.NoError(t, err)
	assert.Equal(t, "first", out.Value)
	assert.False(t, out.Done)
}

func TestGenerator_AbortIsCaught(t *testing.T) {
	g := New(func(y *Yielder, _ ...any) (any, error) {
		if _, err := y.Yield(1); err != nil {
			_, err = y.Yield(err.Error() + " handled")
			return 2, err
		}
		return 1, nil
	})

	_, err := g.Advance(nil)
	require.NoError(t, err)

	out, err := g.Abort(errors.New("ERROR"))
	require.NoError(t, err)
	assert.Equal(t, Outcome{Value: "ERROR handled"}, out)

	out, err = g.Advance(nil)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Done: true, Value: 2}, out)
}

func TestGenerator_AbortPropagates(t *testing.T) {
	g := New(addTwo)
	_, err := g.Advance(nil)
	require.NoError(t, err)

	injected := errors.New("boom")
	out, err := g.Abort(injected)
	assert.ErrorIs(t, err, injected)
	assert.True(t, out.Done)
}

func TestGenerator_AbortBeforeStart(t *testing.T) {
	ran := false
	g := New(func(y *Yielder, _ ...any) (any, error) {
		ran = true
		return nil, nil
	})

	injected := errors.New("early")
	out, err := g.Abort(injected)
	assert.ErrorIs(t, err, injected)
	assert.True(t, out.Done)
	assert.False(t, ran)
}

func TestGenerator_Panic(t *testing.T) {
	g := New(func(y *Yielder, _ ...any) (any, error) {
		panic("kaboom")
	})

	out, err := g.Advance(nil)
	assert.True(t, out.Done)

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "kaboom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
}

func TestGenerator_StopRunsDefers(t *testing.T) {
	unwound := make(chan struct{})
	g := New(func(y *Yielder, _ ...any) (any, error) {
		defer close(unwound)
		for i := 0; ; i++ {
			if _, err := y.Yield(i); err != nil {
				return nil, err
			}
		}
	})

	_, err := g.Advance(nil)
	require.NoError(t, err)

	g.Stop()
	<-unwound
	assert.True(t, g.Done())

	// Idempotent.
	g.Stop()

	out, err := g.Advance(nil)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Done: true}, out)
}

func TestGenerator_StopBeforeStart(t *testing.T) {
	g := New(addTwo)
	g.Stop()
	assert.True(t, g.Done())
}
