package steps

import "fmt"

// EqualFunc compares an actual value with an expected one.
type EqualFunc func(actual, expected any) bool

// MessageFunc renders the failure message for the mismatch at index.
type MessageFunc func(actual, expected []any, index int) string

// Evaluation is the outcome of comparing a Result's sequences.
type Evaluation struct {
	Pass     bool   `json:"pass"`
	Index    int    `json:"index"`
	Actual   any    `json:"actual,omitempty"`
	Expected any    `json:"expected,omitempty"`
	Message  string `json:"message,omitempty"`
}

type missing struct{}

func (missing) String() string { return "<missing>" }

// Missing stands in for the absent side of a step when one sequence is
// longer than the other.
var Missing any = missing{}

// DefaultMessage is used by Evaluate when no MessageFunc is given.
func DefaultMessage(_, _ []any, index int) string {
	return fmt.Sprintf("error on step %d, actual and expected are not the same", index+1)
}

// Evaluate compares actual and expected index by index with equal and
// reports the first mismatch. Actual's indices are scanned first, then
// expected's, so a longer expected sequence is also reported.
func Evaluate(actual, expected []any, equal EqualFunc, message MessageFunc) Evaluation {
	if message == nil {
		message = DefaultMessage
	}

	for _, n := range []int{len(actual), len(expected)} {
		for i := 0; i < n; i++ {
			a, e := at(actual, i), at(expected, i)
			if a == Missing || e == Missing || !equal(a, e) {
				return Evaluation{
					Pass:     false,
					Index:    i,
					Actual:   a,
					Expected: e,
					Message:  message(actual, expected, i),
				}
			}
		}
	}

	return Evaluation{Pass: true}
}

// Evaluate compares the result's sequences. See the package-level Evaluate.
func (r *Result) Evaluate(equal EqualFunc, message MessageFunc) Evaluation {
	return Evaluate(r.Actual, r.Expected, equal, message)
}

func at(s []any, i int) any {
	if i < len(s) {
		return s[i]
	}
	return Missing
}
