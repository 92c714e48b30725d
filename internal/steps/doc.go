// Package steps drives a generator through a scripted list of directives and
// collects what it produced next to what the directives expected.
//
// # Directives
//
//   - Plain (or a bare value passed to List): expect the next suspended value
//     to equal the value, and send the value back as the response.
//   - Yields(expected, response): expect expected, then resume with response.
//   - Skip(response): resume with response without checking.
//   - Throws(x): as a response, inject x as an error at the suspension point;
//     as a directive, handle the error the computation raised at this step.
//   - Finishes / FinishesWith: assert that the computation has completed.
//
// # Usage
//
//	res, err := steps.Drive(gen.Bind(fn), steps.List(
//	    steps.Yields(1, steps.Throws("ERROR")),
//	    steps.Yields("ERROR handled", nil),
//	    2,
//	))
//	if err != nil {
//	    t.Fatal(err)
//	}
//	ev := res.Evaluate(assert.ObjectsAreEqual, nil)
//
// Drive always runs one extra probe step after the last directive so that a
// final return value is observed. Mismatched step counts are not errors: the
// sequences simply end up with different lengths and Evaluate reports the
// first missing step.
package steps
