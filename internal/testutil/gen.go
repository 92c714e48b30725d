package testutil

import "github.com/roach88/gentest/internal/gen"

// YieldAll returns a factory whose generator yields vs in order and then
// returns ret. A nil ret completes with no value.
func YieldAll(ret any, vs ...any) gen.Factory {
	return gen.Bind(func(y *gen.Yielder, _ ...any) (any, error) {
		for _, v := range vs {
			if _, err := y.Yield(v); err != nil {
				return nil, err
			}
		}
		return ret, nil
	})
}

// Echo returns a factory that yields first, then yields every response it
// receives plus delta, n times, and returns the last response.
func Echo(first, delta, n int) gen.Factory {
	return gen.Bind(func(y *gen.Yielder, _ ...any) (any, error) {
		r, err := y.Yield(first)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			v, _ := r.(int)
			if r, err = y.Yield(v + delta); err != nil {
				return nil, err
			}
		}
		return r, nil
	})
}
