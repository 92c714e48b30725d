// Package stepassert reports step-driver results through testify.
//
// It plugs testify's ObjectsAreEqual in as the equality capability and
// renders mismatches with go-spew and a unified diff.
package stepassert

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/gentest/internal/steps"
)

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Evaluate compares the result's sequences with testify's equality and the
// message renderer of this package.
func Evaluate(res *steps.Result) steps.Evaluation {
	return res.Evaluate(assert.ObjectsAreEqual, Message)
}

// Equal asserts that the drive produced the expected steps.
func Equal(t assert.TestingT, res *steps.Result, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	ev := Evaluate(res)
	if ev.Pass {
		return true
	}
	return assert.Fail(t, ev.Message, msgAndArgs...)
}

// Require is like Equal but stops the test on failure.
func Require(t interface {
	assert.TestingT
	FailNow()
}, res *steps.Result, msgAndArgs ...any) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if !Equal(t, res, msgAndArgs...) {
		t.FailNow()
	}
}

// Message renders the mismatch at index: the expected and received values
// followed by a diff of the two sequences.
func Message(actual, expected []any, index int) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Expected on step %d:\n", index+1)
	fmt.Fprintf(&buf, "  %s\n", format(valueAt(expected, index)))
	fmt.Fprintf(&buf, "Received:\n")
	fmt.Fprintf(&buf, "  %s\n", format(valueAt(actual, index)))

	if d := diff(expected, actual); d != "" {
		fmt.Fprintf(&buf, "\nDifference:\n\n%s", d)
	}
	return buf.String()
}

func valueAt(s []any, i int) any {
	if i < len(s) {
		return s[i]
	}
	return steps.Missing
}

func format(v any) string {
	if v == steps.Missing {
		return fmt.Sprint(v)
	}
	return strings.TrimSpace(spewConfig.Sdump(v))
}

func diff(expected, actual []any) string {
	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(spewConfig.Sdump(expected)),
		B:        difflib.SplitLines(spewConfig.Sdump(actual)),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  1,
	})
	if err != nil {
		return ""
	}
	return d
}
