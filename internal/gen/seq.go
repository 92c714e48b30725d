package gen

import "iter"

// SeqHandle drives a range-over-func iterator as a computation.
//
// Iterators cannot receive values, so responses passed to Advance are
// ignored. Abort stops the iterator and returns the injected error, which is
// what a generator without a handler would do.
type SeqHandle struct {
	next func() (any, bool)
	stop func()
	done bool
}

// FromSeq wraps seq in a handle. The iterator is not started until the first
// Advance.
func FromSeq(seq iter.Seq[any]) *SeqHandle {
	next, stop := iter.Pull(seq)
	return &SeqHandle{next: next, stop: stop}
}

// SeqFactory returns a Factory producing a fresh SeqHandle per drive.
func SeqFactory(seq iter.Seq[any]) Factory {
	return func() Handle {
		return FromSeq(seq)
	}
}

func (h *SeqHandle) Advance(any) (Outcome, error) {
	if h.done {
		return Outcome{Done: true}, nil
	}
	v, ok := h.next()
	if !ok {
		h.done = true
		return Outcome{Done: true}, nil
	}
	return Outcome{Value: v}, nil
}

func (h *SeqHandle) Abort(err error) (Outcome, error) {
	h.Stop()
	return Outcome{Done: true}, err
}

func (h *SeqHandle) Stop() {
	h.done = true
	h.stop()
}
