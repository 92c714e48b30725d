package harness

import (
	"fmt"
	"strings"
)

// AssertionError describes why a scenario failed.
type AssertionError struct {
	Type     string // "steps" or "expect_error"
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// assertDriveError checks the drive outcome against expect_error. want is
// empty when the drive must succeed.
func assertDriveError(want string, driveErr error) error {
	switch {
	case want == "" && driveErr == nil:
		return nil
	case want == "":
		return &AssertionError{
			Type:     "expect_error",
			Expected: "drive to complete",
			Actual:   driveErr.Error(),
		}
	case driveErr == nil:
		return &AssertionError{
			Type:     "expect_error",
			Expected: fmt.Sprintf("drive error containing %q", want),
			Actual:   "drive completed",
		}
	case !strings.Contains(driveErr.Error(), want):
		return &AssertionError{
			Type:     "expect_error",
			Expected: fmt.Sprintf("drive error containing %q", want),
			Actual:   driveErr.Error(),
		}
	}
	return nil
}
