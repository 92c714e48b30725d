package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gentest/internal/steps"
)

func TestSequentialIDGenerator(t *testing.T) {
	g := NewSequentialIDGenerator("")
	assert.Equal(t, "run-0001", g.Generate())
	assert.Equal(t, "run-0002", g.Generate())

	g = NewSequentialIDGenerator("plus-two")
	assert.Equal(t, "plus-two-0001", g.Generate())
}

func TestSequentialIDGenerator_ThreadSafe(t *testing.T) {
	g := NewSequentialIDGenerator("x")

	var mu sync.Mutex
	seen := map[string]bool{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := g.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 1000)
}

func TestYieldAll(t *testing.T) {
	res, err := steps.Drive(YieldAll("done", 1, 2), steps.List(1, 2, "done"))
	require.NoError(t, err)
	assert.Equal(t, res.Expected, res.Actual)
}

func TestEcho(t *testing.T) {
	res, err := steps.Drive(Echo(1, 2, 1), steps.List(steps.Yields(1, 3), steps.Yields(5, 7), 7))
	require.NoError(t, err)
	assert.Equal(t, []any{1, 5, 7}, res.Actual)
	assert.Equal(t, res.Expected, res.Actual)
}
