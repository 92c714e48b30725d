package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// RunID identifies the run in the store.
	RunID string `json:"run_id"`

	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Seq orders runs in the store.
	Seq int64 `json:"seq"`

	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Actual and Expected are the drive's two step sequences. Both are
	// empty when the drive failed.
	Actual   []any `json:"actual"`
	Expected []any `json:"expected"`

	// DriveError is the error that aborted the drive, if any.
	DriveError string `json:"drive_error,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Actual:   []any{},
		Expected: []any{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
